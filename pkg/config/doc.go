// Package config loads typed configuration structs from environment
// variables, optionally seeded from a local .env file.
//
// Each infrastructure package declares its own Config struct with `env` and
// `envDefault` tags; main wires them together:
//
//	var httpCfg httpserver.Config
//	config.MustLoad(&httpCfg)
package config
