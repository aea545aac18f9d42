// FILE: lixenwraith/configer/errors.go
package configer

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiger is matched by every typed error raised by the inference, merge and
	// assembly core.
	ErrConfiger = errors.New("configer error")

	// ErrConfigNotFound indicates a setting file does not exist.
	ErrConfigNotFound = errors.New("setting file not found")
)

// UnsupportedTypeError is returned when a literal has no inference rule.
type UnsupportedTypeError struct {
	Path string
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("type %s not supported", e.Type)
	}
	return fmt.Sprintf("type %s not supported at %s", e.Type, e.Path)
}

func (e *UnsupportedTypeError) Is(target error) bool { return target == ErrConfiger }

// UnsupportedFormatError is returned for a file extension or format name that is
// neither TOML nor YAML.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("format %q not supported (toml / yaml)", e.Format)
}

func (e *UnsupportedFormatError) Is(target error) bool { return target == ErrConfiger }

// UnsupportedValueError is returned when a value cannot be written in the requested
// output format.
type UnsupportedValueError struct {
	Path   string
	Format Format
	Reason string
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("cannot write %s as %s: %s", e.Path, e.Format, e.Reason)
}

func (e *UnsupportedValueError) Is(target error) bool { return target == ErrConfiger }

// ConflictError reports two override sources governing overlapping key paths.
type ConflictError struct {
	Path        string
	Origin      string
	OtherPath   string
	OtherOrigin string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("detect conflict: check %s in %s and %s in %s",
		e.Path, e.Origin, e.OtherPath, e.OtherOrigin)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConfiger }

// ChangeDefaultError reports that the default setting file no longer matches the
// fingerprint recorded when the schema was generated.
type ChangeDefaultError struct {
	DefaultFile string
}

func (e *ChangeDefaultError) Error() string {
	return fmt.Sprintf("%s has changed since generation, run `configer update`", e.DefaultFile)
}

func (e *ChangeDefaultError) Is(target error) bool { return target == ErrConfiger }

// UnknownKeyError reports an override key absent from the schema.
type UnknownKeyError struct {
	Path string
	// Origin is the default file the schema was inferred from.
	Origin string
	// Source is the override file that supplied the key, if known.
	Source string
}

func (e *UnknownKeyError) Error() string {
	msg := fmt.Sprintf("unknown key %s (schema from %s)", e.Path, e.Origin)
	if e.Source != "" {
		msg += fmt.Sprintf(", set in %s", e.Source)
	}
	return msg
}

func (e *UnknownKeyError) Is(target error) bool { return target == ErrConfiger }

// InvalidTypeError reports a value that does not match its declared type.
type InvalidTypeError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("%s is expected %s, actual %s", e.Field, e.Expected, e.Actual)
}

func (e *InvalidTypeError) Is(target error) bool { return target == ErrConfiger }

// NameCollisionError reports two different mapping paths that synthesize the same type
// name with different structure.
type NameCollisionError struct {
	Name      string
	Path      string
	OtherPath string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("type name %s synthesized from both %s and %s with different fields",
		e.Name, e.OtherPath, e.Path)
}

func (e *NameCollisionError) Is(target error) bool { return target == ErrConfiger }
