package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the read-only settings snapshot of one certflow invocation.
type Config struct {
	Source       SourceConfig       `mapstructure:"source"`
	Validation   ValidationConfig   `mapstructure:"validation"`
	Order        OrderConfig        `mapstructure:"order"`
	Csr          CsrConfig          `mapstructure:"csr"`
	Store        StoreConfig        `mapstructure:"store"`
	Installation InstallationConfig `mapstructure:"installation"`
	Plugins      PluginsConfig      `mapstructure:"plugins"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Log          LogConfig          `mapstructure:"log"`
}

type SourceConfig struct {
	DefaultSource string `mapstructure:"default_source"`
}

type ValidationConfig struct {
	DefaultValidation     string `mapstructure:"default_validation"`
	DefaultValidationMode string `mapstructure:"default_validation_mode"`
}

type OrderConfig struct {
	DefaultPlugin string `mapstructure:"default_plugin"`
}

type CsrConfig struct {
	DefaultCsr string `mapstructure:"default_csr"`
}

// StoreConfig and InstallationConfig take comma separated lists.
type StoreConfig struct {
	DefaultStore string `mapstructure:"default_store"`
}

type InstallationConfig struct {
	DefaultInstallation string `mapstructure:"default_installation"`
}

type PluginsConfig struct {
	Path string `mapstructure:"path"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

const envPrefix = "certflow"

// Dir is the per-user directory holding certflow.yaml, plugins.yaml and the
// plan database.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "certflow"), nil
}

func defaults(dir string) map[string]any {
	return map[string]any{
		"source.default_source":              "",
		"validation.default_validation":      "",
		"validation.default_validation_mode": "",
		"order.default_plugin":               "",
		"csr.default_csr":                    "",
		"store.default_store":                "",
		"installation.default_installation":  "",
		"plugins.path":                       dir,
		"database.path":                      filepath.Join(dir, "certflow.db"),
		"log.level":                          "info",
	}
}

// Load reads certflow.yaml from configFile when given, else from the user
// config dir or the working directory. A missing file is not an error.
// Environment variables CERTFLOW_<SECTION>_<KEY> override the file; the
// --log-level flag overrides both when set on cmd.
func Load(cmd *cobra.Command, configFile string) (Config, error) {
	var c Config
	dir, err := Dir()
	if err != nil {
		return c, err
	}
	v := viper.New()
	for key, value := range defaults(dir) {
		v.SetDefault(key, value)
	}

	v.SetConfigName("certflow")
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	v.AddConfigPath(dir)
	v.AddConfigPath("/etc/certflow")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if flag := cmd.Flags().Lookup("log-level"); flag != nil {
			if err := v.BindPFlag("log.level", flag); err != nil {
				return c, err
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}
