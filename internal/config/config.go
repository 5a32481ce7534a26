// Package config provides configuration management for unit-ops
package config

import (
	"os"

	"github.com/spf13/viper"
)

// Provider defines the interface for configuration providers.
type Provider interface {
	// GetConfig returns the current application configuration.
	GetConfig() *Settings
	// SetConfig sets the application configuration.
	SetConfig(c *Settings)
	// InitConfig initializes the application configuration.
	InitConfig() *Settings
	// SetConfigFilePath sets the configuration file path.
	SetConfigFilePath(p string)
}

// defaultConfigProvider implements the Provider interface.
type defaultConfigProvider struct {
	cfg *Settings
}

// NewDefaultConfigProvider creates a new default config provider.
func NewDefaultConfigProvider() Provider {
	return &defaultConfigProvider{}
}

var defaultProvider = NewDefaultConfigProvider()
var cfg *Settings

// Default configuration values for the unit-ops system.
const (
	DefaultQuadletDir     = "/etc/containers/systemd"
	DefaultUserQuadletDir = "$HOME/.config/containers/systemd"
	DefaultUserMode       = false
	DefaultVerbose        = false
	DefaultAuto           = false
)

// Settings represents the configuration for the unit-ops system. It contains
// the quadlet installation directory, user mode, verbosity, and the auto
// mode that answers every confirmation prompt with its default.
type Settings struct {
	QuadletDir string `yaml:"quadletDir"`
	UserMode   bool   `yaml:"userMode"`
	Verbose    bool   `yaml:"verbose"`
	Auto       bool   `yaml:"auto"`
}

// EffectiveQuadletDir returns the directory quadlet units are linked into,
// honoring user mode when the directory was not overridden explicitly.
func (s *Settings) EffectiveQuadletDir() string {
	if s.QuadletDir != DefaultQuadletDir {
		return s.QuadletDir
	}
	if s.UserMode {
		return os.ExpandEnv(DefaultUserQuadletDir)
	}
	return s.QuadletDir
}

// Implementation of ConfigProvider methods for defaultConfigProvider

func (p *defaultConfigProvider) SetConfig(c *Settings) {
	p.cfg = c
}

func (p *defaultConfigProvider) GetConfig() *Settings {
	return p.cfg
}

func (p *defaultConfigProvider) SetConfigFilePath(path string) {
	viper.SetConfigFile(path)
}

func (p *defaultConfigProvider) InitConfig() *Settings {
	p.cfg = initConfigInternal()
	return p.cfg
}

// For backward compatibility - pass through to default provider

// SetConfig sets the application configuration.
func SetConfig(c *Settings) {
	defaultProvider.SetConfig(c)
	cfg = c
}

// GetConfig returns the current application configuration.
func GetConfig() *Settings {
	return defaultProvider.GetConfig()
}

// SetConfigFilePath sets the configuration file path.
func SetConfigFilePath(p string) {
	defaultProvider.SetConfigFilePath(p)
}

// InitConfig initializes the application configuration.
func InitConfig() *Settings {
	cfg = defaultProvider.InitConfig()
	return cfg
}

// Internal function to initialize configuration.
func initConfigInternal() *Settings {
	cfg := &Settings{
		QuadletDir: DefaultQuadletDir,
		UserMode:   DefaultUserMode,
		Verbose:    DefaultVerbose,
		Auto:       DefaultAuto,
	}

	viper.SetDefault("quadletDir", DefaultQuadletDir)
	viper.SetDefault("userMode", DefaultUserMode)
	viper.SetDefault("verbose", DefaultVerbose)
	viper.SetDefault("auto", DefaultAuto)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(os.ExpandEnv("$HOME/.config/unit-ops"))
	viper.AddConfigPath("/etc/opt/unit-ops")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("UNIT_OPS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		panic(err)
	}

	return cfg
}
