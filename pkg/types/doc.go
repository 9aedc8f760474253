// Package types defines the core types shared across the integration
// pipeline: the filesystem abstraction, the injected orchestrator
// configuration, the transformation procedure and fetcher capabilities,
// and the persisted state marker.
package types
