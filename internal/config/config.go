package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "PHOTOTAG"
	configFileName = "config"
)

type Config struct {
	Verbose    bool
	NoColor    bool
	NoProgress bool
	Recursive  bool
	ConfigFile string
}

// RegisterFlags adds the settings shared by every command.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.BoolP("verbose", "v", false, "Verbose output")
	flags.Bool("no-color", false, "Disable colored log output")
	flags.Bool("no-progress", false, "Disable the progress bar for batches")
	flags.BoolP("recursive", "R", false, "Descend into directory arguments")
	flags.String("config", "", "Config file (default $XDG_CONFIG_HOME/phototag/config.yaml)")
}

// Load resolves settings from flags, PHOTOTAG_* environment variables and
// the optional config file, in that order of precedence.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}

	explicit := v.GetString("config")
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "phototag"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if explicit != "" || !missing {
			return Config{}, fmt.Errorf("config read '%s': %w", v.ConfigFileUsed(), err)
		}
	}

	return Config{
		Verbose:    v.GetBool("verbose"),
		NoColor:    v.GetBool("no-color"),
		NoProgress: v.GetBool("no-progress"),
		Recursive:  v.GetBool("recursive"),
		ConfigFile: v.ConfigFileUsed(),
	}, nil
}
