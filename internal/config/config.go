package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// AppName names the config file and its directory under ~/.config.
const AppName = "lapdread"

// Config is the full lapdread configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Read   ReadConfig   `mapstructure:"read"`
	Output OutputConfig `mapstructure:"output"`
}

// LogConfig selects the log level and encoding.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

// ReadConfig holds defaults for data reads.
type ReadConfig struct {
	Intersection bool `mapstructure:"intersection"`
	Workers      int  `mapstructure:"workers"`
}

// OutputConfig selects how the CLI prints records.
type OutputConfig struct {
	Format string `mapstructure:"format"` // table or json
}

// Load reads the configuration. With an empty path it searches for
// lapdread.yaml in the working directory and in ~/.config/lapdread; a
// missing file is not an error and leaves the defaults in place.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", AppName))
		}
	}

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("read.intersection", true)
	v.SetDefault("read.workers", 1)
	v.SetDefault("output.format", "table")

	v.SetEnvPrefix("LAPD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if cfg.Read.Workers < 1 {
		cfg.Read.Workers = 1
	}
	return &cfg, nil
}
