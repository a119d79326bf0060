package config

import (
	"os"

	"github.com/spf13/viper"
)

// Default file permissions for created config directories.
const DefaultDirPermissions os.FileMode = 0o755

// SetDefaults installs the default configuration values on a Viper
// instance. Every key a Config field maps to gets a default here so an
// absent config file still yields a runnable configuration.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("kb.name", "kb")
	v.SetDefault("kb.paths", []string{})
	v.SetDefault("kb.watch", false)
	v.SetDefault("kb.reload_debounce_seconds", 2)

	v.SetDefault("output.dir", "out")
	v.SetDefault("output.dialects", []string{"fof", "tff", "thf", "thf-modal"})

	v.SetDefault("pipeline.workers", 0)
	v.SetDefault("pipeline.job_timeout_seconds", 0)
	v.SetDefault("pipeline.closed_world", false)
	v.SetDefault("pipeline.timing", false)

	v.SetDefault("snapshot.path", "")

	v.SetDefault("log.verbosity", 0)
}
