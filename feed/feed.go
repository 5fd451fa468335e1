// Package feed consumes the live-event push channel. Events are advisory
// display data: the engine appends them to a read-only notification log and
// never mutates session score or level from them.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/coder/websocket"

	cfg "github.com/pixelmint/nftplay/config"
)

// Event is one pushed notification.
type Event struct {
	Type      string         `json:"type"`
	TokenID   string         `json:"tokenId"`
	Data      map[string]any `json:"data"`
	Timestamp int64          `json:"timestamp"`
}

// Handler observes every received event. Handlers must not block.
type Handler func(Event)

// ClientState tracks the connection lifecycle.
type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateError
)

// Client manages one WebSocket subscription to the event feed.
// Shared fields are protected by mu (the read loop runs on its own goroutine).
type Client struct {
	mu sync.RWMutex

	url       string
	handler   Handler
	state     ClientState
	lastError error
	conn      *websocket.Conn
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewClient builds a client for url; handler receives every parsed event.
func NewClient(url string, handler Handler) *Client {
	return &Client{
		url:     url,
		handler: handler,
		state:   StateDisconnected,
	}
}

// Connect dials the feed and starts the background read loop.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateConnecting || c.state == StateConnected {
		c.mu.Unlock()
		return fmt.Errorf("feed: already connected")
	}
	c.state = StateConnecting
	c.mu.Unlock()

	dialCtx, cancelDial := context.WithTimeout(ctx, cfg.Feed.DialTimeout)
	defer cancelDial()

	conn, _, err := websocket.Dial(dialCtx, c.url, nil)
	if err != nil {
		c.setError(fmt.Errorf("feed: dial %s: %w", c.url, err))
		return err
	}

	readCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.conn = conn
	c.cancel = cancel
	c.state = StateConnected
	c.done = make(chan struct{})
	c.mu.Unlock()

	go c.readLoop(readCtx, conn)
	return nil
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer close(c.done)
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil {
				c.setError(fmt.Errorf("feed: read: %w", err))
			} else {
				c.setState(StateDisconnected)
			}
			return
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			log.Printf("Warning: malformed feed event: %v", err)
			continue
		}
		if ev.Timestamp == 0 {
			ev.Timestamp = time.Now().UnixMilli()
		}
		if c.handler != nil {
			c.handler(ev)
		}
	}
}

// Close stops the read loop and closes the connection.
func (c *Client) Close() {
	c.mu.Lock()
	cancel := c.cancel
	conn := c.conn
	done := c.done
	c.cancel = nil
	c.conn = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "session closed")
	}
	if done != nil {
		<-done
	}
}

// State returns the current connection state.
func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// LastError returns the most recent connection error.
func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) setError(err error) {
	log.Printf("Warning: %v", err)
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

func (c *Client) setState(s ClientState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
