// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// BackendRequest caps a single request/response exchange with the gym backend.
const BackendRequest = 10 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
