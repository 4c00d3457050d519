// Package cli implements the pingchain command line.
//
//	pingchain serve [--host H] [--port P] [--next URL] [--dev]
//	pingchain ping [url] [--timeout D]
//	pingchain --version
package cli
