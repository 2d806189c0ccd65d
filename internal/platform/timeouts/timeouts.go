// Package timeouts defines shared timeout constants used across the site
// server. Centralizing these values prevents drift between components and
// makes the durations discoverable.
package timeouts

import "time"

// ContentRequest caps the time allowed for a single content API request,
// including retries.
const ContentRequest = 10 * time.Second

// AnalyticsRequest caps the time allowed for delivering one analytics batch.
const AnalyticsRequest = 5 * time.Second

// FlagsRequest caps the time allowed for one feature flag definition fetch.
const FlagsRequest = 5 * time.Second

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
