// FILE: lixenwraith/configer/timing.go
package configer

import "time"

// Timing constants for setting file watching.
const (
	SpinWaitInterval    = 5 * time.Millisecond   // busy-wait quantum while stopping
	MinPollInterval     = 100 * time.Millisecond // hard floor for file stat polling
	ShutdownTimeout     = 100 * time.Millisecond // wait for an in-flight handler on stop
	DefaultDebounce     = 500 * time.Millisecond // file change coalescence period
	DefaultPollInterval = time.Second            // standard file monitoring frequency
)
