package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// MustLoad reads the YAML config named by CONFIG_PATH and applies env
// overrides. Exits the process on any failure; config errors are not
// recoverable at runtime.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}
