// Package grpcserver is the order-entry gateway: it adapts concurrent
// gRPC handlers onto the engine's ingress funnel and serves depth reads
// from the published snapshot, never touching engine-owned state.
//
// The service is registered through a hand-written grpc.ServiceDesc and
// speaks the wire codec; there is no generated stub layer.
package grpcserver

import (
	"context"
	"log"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"nanobook/api/wire"
	"nanobook/domain/orderbook"
	"nanobook/service"
)

// Server handles the OrderGateway RPCs.
type Server struct {
	engine  *service.Engine
	ingress *service.Ingress
}

// NewServer builds a gateway in front of an engine.
func NewServer(engine *service.Engine) *Server {
	return &Server{engine: engine, ingress: engine.Ingress()}
}

// Submit pushes a new-order request into the ring. The Ack reports only
// admission; matching happens asynchronously on the engine thread.
func (s *Server) Submit(ctx context.Context, req *wire.SubmitRequest) (*wire.Ack, error) {
	if req.Qty == 0 {
		return &wire.Ack{OK: false, Detail: "quantity must be positive"}, nil
	}
	side := orderbook.Bid
	if req.Side == wire.SideAsk {
		side = orderbook.Ask
	}
	if !s.ingress.Submit(req.ID, req.Price, req.Qty, side) {
		return nil, status.Error(codes.ResourceExhausted, "ingress ring full")
	}
	return &wire.Ack{OK: true}, nil
}

// Cancel pushes a cancellation into the ring.
func (s *Server) Cancel(ctx context.Context, req *wire.CancelRequest) (*wire.Ack, error) {
	if !s.ingress.Cancel(req.ID) {
		return nil, status.Error(codes.ResourceExhausted, "ingress ring full")
	}
	return &wire.Ack{OK: true}, nil
}

// Depth serves the latest published snapshot.
func (s *Server) Depth(ctx context.Context, req *wire.DepthRequest) (*wire.DepthReply, error) {
	snap := s.engine.DepthSnapshot()
	levels := snap.Levels
	if req.MaxLevels != 0 && uint64(len(levels)) > req.MaxLevels {
		levels = levels[:req.MaxLevels]
	}
	reply := &wire.DepthReply{
		Levels: make([]wire.DepthLevel, 0, len(levels)),
		Seq:    snap.Seq,
	}
	for _, lvl := range levels {
		side := wire.SideBid
		if lvl.Side == orderbook.Ask {
			side = wire.SideAsk
		}
		reply.Levels = append(reply.Levels, wire.DepthLevel{
			Side:   side,
			Price:  lvl.Price,
			Volume: lvl.Volume,
		})
	}
	return reply, nil
}

// Serve registers the gateway on a grpc.Server forced onto the wire
// codec and logs the bind.
func Serve(grpcSrv *grpc.Server, engine *service.Engine) {
	RegisterOrderGatewayServer(grpcSrv, NewServer(engine))
	log.Printf("[gateway] order gateway registered (codec=%s)", wire.CodecName)
}
