// Package replay is the host-facing harness that drives apply_epoch
// across many epochs. It owns everything the pure kernel is forbidden
// from owning: logging, alerting, and the loop that turns a target epoch
// count into a sequence of transition.ApplyEpoch calls.
package replay

// Config aggregates the harness's non-consensus knobs: how far to
// replay, how loud to log, and where to send alerts on failure.
// Analogous to the teacher's opera/genesis/config.go and
// cmd/opera/launcher/config.go — a plain struct with defaults, no CLI
// flag parsing, since command-line wrappers are out of scope here.
type Config struct {
	// TargetEpoch is the last epoch number the run should reach.
	TargetEpoch uint64
	// LogLevel controls the harness logger's verbosity.
	LogLevel LogLevel
	// SentryDSN optionally wires a logrus_sentry hook onto the harness
	// logger. Empty disables alerting entirely.
	SentryDSN string
}

// LogLevel mirrors logrus.Level without exporting the dependency from
// this package's public surface.
type LogLevel int

const (
	LogLevelInfo LogLevel = iota
	LogLevelDebug
	LogLevelWarn
)

// DefaultConfig returns the harness's defaults: no Sentry, info-level
// logging, no target epoch (the caller must set one).
func DefaultConfig() Config {
	return Config{LogLevel: LogLevelInfo}
}
