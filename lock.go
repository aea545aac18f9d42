// File: lixenwraith/configer/lock.go
package configer

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultLockFile is where generation records are kept.
const DefaultLockFile = ".config.lock"

// LockEntry records one generation: the output file and the hash of the setting file
// it was generated from.
type LockEntry struct {
	Setting string `mapstructure:"-" yaml:"-"`
	Hash    string `mapstructure:"hash_value" yaml:"hash_value"`
	Output  string `mapstructure:"output" yaml:"output"`
	Package string `mapstructure:"package" yaml:"package,omitempty"`
}

// LockFile maps setting files to their generation records.
type LockFile struct {
	entries map[string]LockEntry
}

// NewLockFile creates an empty lock file.
func NewLockFile() *LockFile {
	return &LockFile{entries: make(map[string]LockEntry)}
}

// ReadLockFile reads a lock file. A missing file yields an empty lock and
// ErrConfigNotFound.
func ReadLockFile(path string) (*LockFile, error) {
	lock := NewLockFile()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return lock, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read lock file '%s': %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse lock file '%s': %w", path, err)
	}

	for setting, contents := range raw {
		var entry LockEntry
		if err := mapstructure.Decode(contents, &entry); err != nil {
			return nil, fmt.Errorf("invalid lock entry %q in '%s': %w", setting, path, err)
		}
		entry.Setting = setting
		lock.entries[setting] = entry
	}
	return lock, nil
}

// Record adds or replaces the entry for a setting file.
func (l *LockFile) Record(setting, output, pkg, hash string) {
	l.entries[setting] = LockEntry{Setting: setting, Hash: hash, Output: output, Package: pkg}
}

// Get returns the entry for a setting file.
func (l *LockFile) Get(setting string) (LockEntry, bool) {
	e, ok := l.entries[setting]
	return e, ok
}

// Entries returns all entries ordered by setting path.
func (l *LockFile) Entries() []LockEntry {
	out := make([]LockEntry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Setting < out[j].Setting })
	return out
}

// Write saves the lock file atomically.
func (l *LockFile) Write(path string) error {
	data, err := yaml.Marshal(l.entries)
	if err != nil {
		return fmt.Errorf("failed to marshal lock file: %w", err)
	}
	return atomicWriteFile(path, data)
}
