// Package testutil provides test environments and fixtures for the
// integration pipeline: an in-memory or temp-dir filesystem, a builder
// for realistic extracted upstream trees, and a stub fetcher that
// plants fixtures instead of hitting the network.
package testutil
