// Package cache defines the disk-backed store that persists the last-known
// GitHub payloads between CLI invocations. Every entry is a single JSON
// file <CacheDir>/<account>.<kind>.json holding an Envelope: the raw
// payload plus the normalized entity tag used for conditional requests.
// Writes go through a temp file + rename so a concurrent reader never
// observes a partial entry. The pipeline depends on this package to decide
// between conditional and unconditional fetches without duplicating
// filesystem logic.
package cache
