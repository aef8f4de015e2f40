package websocket

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"nhooyr.io/websocket"

	"github.com/rocketscienceinc/p2p-tictactoe/internal/pkg"
	"github.com/rocketscienceinc/p2p-tictactoe/internal/transport"
)

// link is one websocket connection. Writes go through a bounded outbox drained
// by a single writer goroutine, so payloads leave in the order they were sent.
type link struct {
	id        string
	direction transport.Direction
	conn      *websocket.Conn

	outbox       chan []byte
	writeTimeout time.Duration

	done          chan struct{}
	closeOnce     sync.Once
	closedLocally atomic.Bool
}

func newLink(conn *websocket.Conn, direction transport.Direction, outboxSize int, writeTimeout time.Duration) *link {
	return &link{
		id:           pkg.GenerateLinkID(),
		direction:    direction,
		conn:         conn,
		outbox:       make(chan []byte, outboxSize),
		writeTimeout: writeTimeout,
		done:         make(chan struct{}),
	}
}

func (that *link) ID() string {
	return that.id
}

func (that *link) Direction() transport.Direction {
	return that.direction
}

func (that *link) Send(payload []byte) error {
	select {
	case <-that.done:
		return transport.ErrLinkClosed
	default:
	}

	select {
	case that.outbox <- payload:
		return nil
	default:
		return transport.ErrOutboxFull
	}
}

func (that *link) Close() error {
	that.closedLocally.Store(true)
	return that.shutdown(websocket.StatusNormalClosure, "bye")
}

func (that *link) shutdown(code websocket.StatusCode, reason string) error {
	var err error

	that.closeOnce.Do(func() {
		close(that.done)
		err = that.conn.Close(code, reason)
	})

	return err
}

// writeLoop - drains the outbox until the link is shut down.
func (that *link) writeLoop(ctx context.Context) {
	for {
		select {
		case <-that.done:
			return
		case <-ctx.Done():
			_ = that.shutdown(websocket.StatusGoingAway, "shutting down")
			return
		case payload := <-that.outbox:
			writeCtx, cancel := context.WithTimeout(ctx, that.writeTimeout)
			err := that.conn.Write(writeCtx, websocket.MessageText, payload)
			cancel()

			if err != nil {
				// the reader observes the broken connection and reports it
				_ = that.shutdown(websocket.StatusInternalError, "write failed")
				return
			}
		}
	}
}
