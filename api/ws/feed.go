// Package ws serves the book-viewer dashboard: a websocket endpoint
// streaming depth snapshots and executed trades as JSON. The feed is a
// pure reader of the engine's published state; it never touches the
// book.
package ws

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"nanobook/domain/orderbook"
	"nanobook/service"
)

const (
	depthInterval = 250 * time.Millisecond
	writeTimeout  = 5 * time.Second
	subBuffer     = 64
)

type outbound struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type depthLevel struct {
	Side   string `json:"side"`
	Price  uint64 `json:"price"`
	Volume uint64 `json:"volume"`
}

type depthMessage struct {
	Seq    uint64       `json:"seq"`
	Levels []depthLevel `json:"levels"`
}

type tradeMessage struct {
	Seq   uint64 `json:"seq"`
	BidID uint64 `json:"bidId"`
	AskID uint64 `json:"askId"`
	Price uint64 `json:"price"`
	Qty   uint64 `json:"qty"`
}

// Feed owns the subscriber hub and the goroutine that pumps engine
// output into it.
type Feed struct {
	engine   *service.Engine
	hub      *hub[outbound]
	upgrader websocket.Upgrader
}

// NewFeed builds a dashboard feed over an engine.
func NewFeed(engine *service.Engine) *Feed {
	return &Feed{
		engine: engine,
		hub:    newHub[outbound](),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Run drains the trade ring and rebroadcasts depth on a ticker until the
// context is cancelled. It is the sole consumer of the trade ring.
func (f *Feed) Run(ctx context.Context) {
	ticker := time.NewTicker(depthInterval)
	defer ticker.Stop()

	var (
		trade orderbook.Trade
		last  *service.Depth
	)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for f.engine.PopTrade(&trade) {
				f.hub.Broadcast(outbound{Type: "trade", Data: tradeMessage{
					Seq:   trade.Seq,
					BidID: trade.BidID,
					AskID: trade.AskID,
					Price: trade.Price,
					Qty:   trade.Qty,
				}})
			}
			snap := f.engine.DepthSnapshot()
			if snap == last {
				continue
			}
			last = snap
			f.hub.Broadcast(outbound{Type: "depth", Data: depthFrom(snap)})
		}
	}
}

func depthFrom(snap *service.Depth) depthMessage {
	msg := depthMessage{
		Seq:    snap.Seq,
		Levels: make([]depthLevel, 0, len(snap.Levels)),
	}
	for _, lvl := range snap.Levels {
		msg.Levels = append(msg.Levels, depthLevel{
			Side:   lvl.Side.String(),
			Price:  lvl.Price,
			Volume: lvl.Volume,
		})
	}
	return msg
}

// ServeHTTP upgrades the connection and streams feed messages until the
// peer goes away.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sub := f.hub.Subscribe(subBuffer)
	defer f.hub.Unsubscribe(sub)

	// Prime the viewer with the current depth before live updates.
	first := outbound{Type: "depth", Data: depthFrom(f.engine.DepthSnapshot())}
	if err := writeMessage(conn, first); err != nil {
		return
	}

	for msg := range sub.ch {
		if err := writeMessage(conn, msg); err != nil {
			return
		}
	}
}

func writeMessage(conn *websocket.Conn, msg outbound) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(msg)
}
