// Package domain defines the core domain types for the vote engine.
//
// This package contains the vote record, the query shapes, and the statistics
// result shared between the persistence adapter and the HTTP surface. No
// implementation code - just contracts. Prevents circular imports by keeping
// interfaces on the consumer side.
package domain
