// Package timeouts defines shared timeout constants used across the site
// processes.
package timeouts

import "time"

// APIRequest caps a single call from the site to the content REST API.
const APIRequest = 10 * time.Second

// CacheOp caps a single read or write against the page cache backend.
const CacheOp = 2 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
