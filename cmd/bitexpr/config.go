package main

import (
	"errors"

	"github.com/spf13/viper"
)

// Config is the calculator configuration. Command line flags override it.
type Config struct {
	// Bits shows a bit ruler under each result.
	Bits bool `mapstructure:"bits"`
	// Echo prints the postfix form of each expression before its result.
	Echo bool `mapstructure:"echo"`
	// Trace sends parser and evaluator traces to the log.
	Trace bool `mapstructure:"trace"`
	// Prompt is the interactive prompt.
	Prompt string `mapstructure:"prompt"`
	// History is the interactive history file, if any.
	History string `mapstructure:"history"`
	// Log configures the log file.
	Log LogConfig `mapstructure:"log"`
}

// LogConfig configures the log file. An empty FileName disables logging.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	FileName   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"maxsize"`
	MaxAge     int    `mapstructure:"maxage"`
	MaxBackups int    `mapstructure:"maxbackups"`
	Compress   bool   `mapstructure:"compress"`
}

// LoadConfig loads configuration from the YAML file at path. If path is
// empty, it looks for bitexpr.yaml in the working directory and in
// $HOME/.config/bitexpr, and a missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("prompt", "> ")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.maxsize", 10)
	v.SetDefault("log.maxage", 28)
	v.SetDefault("log.maxbackups", 3)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bitexpr")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/bitexpr")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &nf) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
