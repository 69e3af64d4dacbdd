// Package orderbook implements a single-symbol limit order book with
// strict price-time priority. It maintains two price-ordered trees for
// the bid and ask sides, an id index for O(1) cancellation, and a
// fixed-capacity slab of order records so the submit/cancel/match hot
// path performs no heap allocation.
//
// The book is a single-writer structure: exactly one goroutine may call
// Submit and Cancel. Callers that need multi-producer access must either
// funnel requests through an SPSC ring (see service.Engine) or use the
// coarse-locked wrapper in this package.
package orderbook
