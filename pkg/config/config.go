package config

// Package config provides a reusable loader for solmev configuration files
// and environment variables. It is versioned so that applications can depend
// on a stable API contract.
//
// Version: v0.1.0

import (
	"fmt"

	"github.com/spf13/viper"

	"solmev/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config is the unified configuration for the block classifier pipeline. It
// mirrors the structure of the YAML files under cmd/classify/config.
type Config struct {
	Labelling struct {
		RetainVotes             bool `mapstructure:"retain_votes" json:"retain_votes" yaml:"retain_votes"`
		RemoveEmptyTransactions bool `mapstructure:"remove_empty_transactions" json:"remove_empty_transactions" yaml:"remove_empty_transactions"`
		ClusterJitoBundles      bool `mapstructure:"cluster_jito_bundles" json:"cluster_jito_bundles" yaml:"cluster_jito_bundles"`
	} `mapstructure:"labelling" json:"labelling" yaml:"labelling"`

	Scheduler struct {
		MailboxSize      int `mapstructure:"mailbox_size" json:"mailbox_size" yaml:"mailbox_size"`
		WorkerCount      int `mapstructure:"worker_count" json:"worker_count" yaml:"worker_count"`
		RequestTimeoutMS int `mapstructure:"request_timeout_ms" json:"request_timeout_ms" yaml:"request_timeout_ms"`
	} `mapstructure:"scheduler" json:"scheduler" yaml:"scheduler"`

	Server struct {
		ListenAddr string `mapstructure:"listen_addr" json:"listen_addr" yaml:"listen_addr"`
	} `mapstructure:"server" json:"server" yaml:"server"`

	Logging struct {
		Level string `mapstructure:"level" json:"level" yaml:"level"`
		File  string `mapstructure:"file" json:"file" yaml:"file"`
	} `mapstructure:"logging" json:"logging" yaml:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment specific
// overrides. The resulting configuration is stored in AppConfig and returned.
//
// The function uses the provided environment name to merge additional config
// files. If env is empty, only the default configuration is loaded. A
// missing default config file is not an error; built-in defaults apply. A
// missing config file for a non-empty env is returned as an error.
func Load(env string) (*Config, error) {
	viper.SetDefault("labelling.retain_votes", false)
	viper.SetDefault("labelling.remove_empty_transactions", true)
	viper.SetDefault("labelling.cluster_jito_bundles", true)
	viper.SetDefault("scheduler.mailbox_size", 64)
	viper.SetDefault("scheduler.worker_count", 4)
	viper.SetDefault("scheduler.request_timeout_ms", 30_000)
	viper.SetDefault("server.listen_addr", "127.0.0.1:8089")
	viper.SetDefault("logging.level", "info")

	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/classify/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, utils.Wrap(err, "load config")
		}
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.SetEnvPrefix("SOLMEV")
	viper.AutomaticEnv() // picks up from .env

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the SOLMEV_ENV environment variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("SOLMEV_ENV", ""))
}
