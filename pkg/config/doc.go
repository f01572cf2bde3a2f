// Package config loads typed configuration structs from environment
// variables. It parses `env` struct tags via caarlos0/env and bootstraps a
// local .env file once per process through godotenv, so development and
// production share the same code path.
//
// Each configuration type is parsed once and cached: components may call
// Load for the same struct type independently without re-reading the
// environment or diverging on values.
//
// Usage:
//
//	type AppConfig struct {
//		Name string `env:"APP_NAME" envDefault:"meterd"`
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
package config
