// Package server holds the HTTP server configuration and constants.
//
// While the start command handles the server startup, this package defines the
// configuration structures and valid values for server settings, such as the
// deployment environment and the admin API key.
package server
