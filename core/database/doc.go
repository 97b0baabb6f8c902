// Package database handles database connections and schema inspection.
//
// It wraps GORM to configure Postgres (the hosted production store), MySQL, or SQLite
// (tests and local development) connections based on the application's configuration.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the integrity feature verify that the tour
// tables carry every structural and enrichment column the sync workflow writes.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "tour_spots", []string{"overview"})
package database
