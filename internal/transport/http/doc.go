// Package http contains the HTTP transport layer: chi routers, request
// handlers, and the websocket endpoint. Handlers depend on service
// interfaces so tests can substitute mocks, and all error responses flow
// through the shared RFC 7807 error handler.
package http
