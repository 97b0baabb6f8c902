// Package config loads the tour-admin configuration.
//
// Values come from environment variables, optionally seeded from a .env file
// with godotenv, and are decoded by Viper into nested section structs. Each
// section is owned by the package that consumes it and declares its defaults
// with `default:"..."` struct tags.
//
// # Sections
//
//   - server: port, API key, environment
//   - database: driver (postgres, mysql, sqlite) and connection details
//   - storage: MinIO endpoint and the orphan archive bucket
//   - log: level and format
//   - redis: optional cross-session pass lock
//   - tourapi: catalog base URL, service key, pacing
//   - ai: OpenAI-compatible endpoint for AI descriptions
//   - sync: page size, snapshot TTL, category parallelism
//
// Environment keys join the section and field with an underscore, e.g.
// TOURAPI_SERVICE_KEY or DATABASE_DRIVER.
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
