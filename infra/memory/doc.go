// Package memory provides the allocation primitives under the matching
// engine: a fixed-capacity slab for order records, a sync.Pool wrapper
// for auxiliary objects, and the SPSC ring buffer that carries requests
// from the ingress thread to the engine thread.
//
// The package is dependency-free and knows nothing about orders; the
// domain layer owns all typing.
package memory
