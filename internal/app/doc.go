// Package app wires the web server together: configuration, logging,
// metrics, data loading, services, middleware, and routes. The cmd/web
// binary is a thin shell around Application.
package app
