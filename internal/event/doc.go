// Package event models a single entry of a GitHub activity feed and the
// closed catalog of event types the CLI understands. Each event knows how
// to describe itself as a one-line narrative phrase; the payload is kept
// as raw JSON and only the few fields a phrase needs are decoded lazily.
package event
