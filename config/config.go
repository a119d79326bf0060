// Package config provides the axigen configuration surface: TOML files
// merged with AXIGEN_-prefixed environment variables via Viper.
package config

// Config is the core axigen configuration.
type Config struct {
	KB       KBConfig       `mapstructure:"kb"`
	Output   OutputConfig   `mapstructure:"output"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Log      LogConfig      `mapstructure:"log"`
}

// KBConfig locates the knowledge base.
type KBConfig struct {
	// Name labels the knowledge base; artifact files and axiom identifiers
	// derive from it.
	Name string `mapstructure:"name"`

	// Paths are the .kif source files, loaded in sorted order.
	Paths []string `mapstructure:"paths"`

	// Watch enables automatic reload when a source file changes.
	Watch bool `mapstructure:"watch"`

	// ReloadDebounceSeconds throttles reloads under editor save storms
	// (default: 2).
	ReloadDebounceSeconds int `mapstructure:"reload_debounce_seconds"`
}

// OutputConfig controls artifact emission.
type OutputConfig struct {
	// Dir receives one artifact file per dialect (default: ./out)
	Dir string `mapstructure:"dir"`

	// Dialects selects which targets to generate (default: all)
	Dialects []string `mapstructure:"dialects"`
}

// PipelineConfig tunes the translation run.
type PipelineConfig struct {
	// Workers bounds the shared worker pool: 0 = hardware parallelism
	Workers int `mapstructure:"workers"`

	// JobTimeoutSeconds abandons a single formula's translation after this
	// long: 0 = no per-job timeout
	JobTimeoutSeconds int `mapstructure:"job_timeout_seconds"`

	// ClosedWorld additionally generates closed-world-assumption axioms
	ClosedWorld bool `mapstructure:"closed_world"`

	// Timing enables per-stage timing in run reports without altering
	// artifact content
	Timing bool `mapstructure:"timing"`
}

// SnapshotConfig configures cache persistence across restarts.
type SnapshotConfig struct {
	// Path is the SQLite snapshot database. Empty disables persistence;
	// a missing or empty snapshot is rebuilt from the knowledge base.
	Path string `mapstructure:"path"`
}

// LogConfig configures console output.
type LogConfig struct {
	// Verbosity: 0 = user, 1 = info, 2 = debug, 3 = trace
	Verbosity int `mapstructure:"verbosity"`
}
