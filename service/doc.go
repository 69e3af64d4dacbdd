// Package service runs the matching core. Engine owns the book and the
// ingress ring and is the ONLY writer: one goroutine calls Run, drains
// the ring, and applies every request in push order. Boundary layers
// (gRPC gateway, websocket feed) talk to the engine exclusively through
// the ring, the trade ring, and the published depth snapshot.
package service
