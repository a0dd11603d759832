package models

type APIServer interface {
	// Start starts the HTTP server
	Start()

	// Shutdown gracefully shuts down the HTTP server
	Shutdown() error
}
