// Package cache provides an optional Redis-backed cache for direct
// efetch payloads.
//
// Accessioned sequence records are immutable snapshots: a given
// (database, section, format, identifier set) request always yields the
// same payload, so repeated direct fetches can be served from Redis
// instead of re-hitting the E-utilities rate window. History-based
// fetches are never cached because they depend on a server-side session.
//
// The cache is opt-in. A client constructed without a Redis connection
// performs every direct fetch over the network.
package cache
