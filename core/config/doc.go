// Package config handles experiment configuration: loading settings from the
// environment and converting config structs to and from plain maps for
// artifact storage.
//
// # Environment Loading
//
// Load parses environment variables into a struct using caarlos0/env tags,
// loading a .env file on first use. Each configuration type is loaded once
// and cached for subsequent calls:
//
//	type PipelineConfig struct {
//		LoadBufferSize int    `env:"EXPKIT_LOAD_BUFFER_SIZE" envDefault:"5000"`
//		DataRoot       string `env:"EXPKIT_DATA_ROOT,required"`
//	}
//
//	var cfg PipelineConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// # Map Conversion
//
// ToMap and FromMap convert between config structs and map[string]any, the
// shape stored in config.json artifacts. Conversion applies type hooks so
// enum types implementing encoding.TextMarshaler/TextUnmarshaler,
// time.Duration values and version.Version fields round-trip as strings
// regardless of which artifact codec serializes the map afterwards:
//
//	type Optimizer int
//	// Optimizer implements TextMarshaler/TextUnmarshaler.
//
//	type DatasetConfig struct {
//		Name      string        `json:"name"`
//		Optimizer Optimizer     `json:"optimizer"`
//		Timeout   time.Duration `json:"timeout"`
//	}
//
//	m, err := config.ToMap(cfg)          // optimizer: "adam", timeout: "30s"
//	err = config.FromMap(m, &restored)   // parsed back into typed fields
//
// Save and Fetch combine the conversion with an artifact.Store round-trip.
package config
