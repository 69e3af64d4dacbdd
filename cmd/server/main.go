package main

import (
	"context"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"nanobook/api/grpcserver"
	"nanobook/api/wire"
	"nanobook/api/ws"
	"nanobook/service"
)

func main() {
	var (
		grpcAddr  = flag.String("grpc", ":50051", "order gateway listen address")
		wsAddr    = flag.String("ws", ":8080", "dashboard listen address")
		poolCap   = flag.Int("pool", 1<<16, "max simultaneously resting orders")
		ringCap   = flag.Int("ring", 1<<14, "ingress ring capacity")
		tradeBuf  = flag.Int("trades", 1<<16, "trade fan-out ring capacity")
		depthHint = flag.Int("depth", 256, "expected live price levels")
	)
	flag.Parse()

	engine := service.New(service.Config{
		PoolCapacity: *poolCap,
		DepthHint:    *depthHint,
		RingCapacity: *ringCap,
		TradeBuffer:  *tradeBuf,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---------------- Engine ----------------

	go engine.Run(ctx)

	// ---------------- Dashboard ----------------

	feed := ws.NewFeed(engine)
	go feed.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/feed", feed)
	httpSrv := &http.Server{Addr: *wsAddr, Handler: mux}
	go func() {
		log.Printf("[dashboard] listening on %s", *wsAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("dashboard server exited: %v", err)
		}
	}()

	// ---------------- Gateway ----------------

	lis, err := net.Listen("tcp", *grpcAddr)
	if err != nil {
		log.Fatalf("listen failed: %v", err)
	}
	grpcSrv := grpc.NewServer(grpc.ForceServerCodec(wire.Codec{}))
	grpcserver.Serve(grpcSrv, engine)

	go func() {
		log.Printf("[gateway] listening on %s", *grpcAddr)
		if err := grpcSrv.Serve(lis); err != nil {
			log.Fatalf("gateway exited: %v", err)
		}
	}()

	// ---------------- Shutdown ----------------

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Println("shutting down")
	grpcSrv.GracefulStop()
	_ = httpSrv.Shutdown(context.Background())
	cancel()
}
