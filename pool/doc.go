// Package pool implements server selection, retry, and per-server circuit
// breaking for outbound DIMSE associations and UPS-RS HTTP calls: a Pool
// picks which configured server to try next, RetryPolicy governs how many
// times and with what backoff a failed attempt is retried, and Breaker
// gates further attempts to a server that has been failing consistently.
package pool
