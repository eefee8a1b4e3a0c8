package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	State  StateConfig
	Worker WorkerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type StateConfig struct {
	// Path of the shared workflow state file. Worker processes locate the
	// same file through this setting, so server and worker must agree on it.
	Path string
}

type WorkerConfig struct {
	Command string
	Args    []string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables, e.g. STATE_PATH overrides state.path
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("server.port", "3000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("state.path", "data/workflow_state.json")
	viper.SetDefault("worker.command", "./bin/videoworker")
	viper.SetDefault("worker.args", []string{})

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetString("server.port"),
			Env:  viper.GetString("server.env"),
		},
		State: StateConfig{
			Path: viper.GetString("state.path"),
		},
		Worker: WorkerConfig{
			Command: viper.GetString("worker.command"),
			Args:    viper.GetStringSlice("worker.args"),
		},
	}

	return cfg, nil
}
