// Package config loads typed configuration from environment variables.
//
// It is a thin layer over github.com/caarlos0/env/v11 (struct tag parsing)
// and github.com/joho/godotenv (.env files). Every package in this module that
// needs settings exposes a Config struct with `env` tags and a NewFromConfig
// constructor; the binaries load those structs with Load:
//
//	var cfg apiclient.Config
//	config.MustLoad(&cfg)
//	client := apiclient.NewFromConfig(cfg, apiclient.WithTokenStore(store))
//
// Parsed values are cached per type. Tests that change the environment call
// Reset between cases.
package config
