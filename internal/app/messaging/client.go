/*
Package messaging contains the core logic for the expert conversation threads.

This file defines the Client struct, representing an active WebSocket
connection subscribed to a thread's live message feed. The feed is one-way:
messages are posted over HTTP and fanned out here, so the ReadPump exists only
to service heartbeats and detect disconnects.
*/
package messaging

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/SADD1990/kkhebrah/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 512
)

// Client struct represents an active WebSocket connection subscribed to a thread.
type Client struct {
	// the thread the client is subscribed to.
	thread *Thread

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// the thread subscription channel feeding WritePump.
	feed chan Message

	// structured logger with client and thread context.
	logger zerolog.Logger
}

// NewClient constructs a Client and subscribes it to the thread's feed.
func NewClient(thread *Thread, wsConn *websocket.Conn) *Client {
	clientLogger := logx.Logger().With().
		Str("component", "ws_client").
		Str("session_id", thread.SessionID).
		Logger()

	return &Client{
		thread: thread,
		conn:   wsConn,
		feed:   thread.Subscribe(),
		logger: clientLogger,
	}
}

// ReadPump drains the connection to service heartbeats and notice disconnects.
// Inbound frames carry no application data and are discarded.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}
	}
}

// cleanupOnDisconnect handles the necessary cleanup steps when the client's ReadPump terminates.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.thread.Unsubscribe(c.feed)

	if err := c.conn.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Client connection close error")
	}
}

// WritePump streams thread messages from the subscription feed to the
// WebSocket connection and keeps the heartbeat alive. It exits when the feed
// is closed (thread stopped or client unsubscribed) or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case msg, ok := <-c.feed:
			if !c.writeQueuedMessage(msg, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage writes one feed message to the WebSocket.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedMessage(msg Message, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Error().Err(err).Msg("Error writing close message")
		}
		return false
	}

	messageBytes, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error().Err(err).Msg("Error marshaling message for client")
		return true
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, messageBytes); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
