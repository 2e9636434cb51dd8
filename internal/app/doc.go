// Package app contains the core application logic. It wires configuration,
// logging, the plugin registration table, and the HTTP server together around
// the registry lifecycle, decoupled from any specific entrypoint like a CLI.
package app
