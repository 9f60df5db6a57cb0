// Package daemon assembles the process: configuration, storage, the service
// graph, and the HTTP server, with a file lock ensuring one instance per
// data directory.
package daemon
