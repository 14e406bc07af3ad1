package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config is used to hold all runtime configuration. The sections are embedded so every variable
//   is read as NODE_<name>, or <name> when that isn't set.
type Config struct {
	ContractConfig
	AWSConfig
	StorageConfig
	LogConfig
}

// ContractConfig holds the contract key and the fee charged by each operation.
type ContractConfig struct {
	PrivateKey  string `envconfig:"PRIV_KEY" json:"PRIV_KEY"`
	ExchangeFee string `default:"0.1" envconfig:"EXCHANGE_FEE" json:"EXCHANGE_FEE"`
	SwapFee     string `default:"0.01" envconfig:"SWAP_FEE" json:"SWAP_FEE"`
}

type AWSConfig struct {
	Region          string `default:"ap-southeast-2" envconfig:"AWS_REGION" json:"AWS_REGION"`
	AccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID" json:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY" json:"AWS_SECRET_ACCESS_KEY"`
}

type StorageConfig struct {
	Bucket string `default:"standalone" envconfig:"CONTRACT_STORAGE_BUCKET" json:"CONTRACT_STORAGE_BUCKET"`
	Root   string `default:"./tmp" envconfig:"CONTRACT_STORAGE_ROOT" json:"CONTRACT_STORAGE_ROOT"`
}

// LogConfig selects the log format and an optional log file.
type LogConfig struct {
	Format string `default:"text" envconfig:"LOG_FORMAT" json:"LOG_FORMAT"`
	File   string `envconfig:"LOG_FILE_PATH" json:"LOG_FILE_PATH"`
}

// SafeConfig masks sensitive config values
func SafeConfig(cfg Config) *Config {
	cfgSafe := cfg

	if len(cfgSafe.PrivateKey) > 0 {
		cfgSafe.PrivateKey = "*** Masked ***"
	}
	if len(cfgSafe.AccessKeyID) > 0 {
		cfgSafe.AccessKeyID = "*** Masked ***"
	}
	if len(cfgSafe.SecretAccessKey) > 0 {
		cfgSafe.SecretAccessKey = "*** Masked ***"
	}

	return &cfgSafe
}

// Environment returns configuration sourced from environment variables
func Environment() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("NODE", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LogEnvironment returns only the log configuration, so logging can be set up before the rest of
//   the configuration is read.
func LogEnvironment() (*LogConfig, error) {
	var cfg LogConfig

	if err := envconfig.Process("NODE", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
