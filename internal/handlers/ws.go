package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/promptfall/promptfall/internal/game"
)

const (
	subprotocol  = "promptfall"
	writeTimeout = 5 * time.Second
	pingInterval = 30 * time.Second
)

// WSHandler accepts a websocket connection, registers it, announces the
// assigned connection id and runs the read loop until disconnect. On exit
// the connection is unregistered and its player implicitly leaves
// whatever room it occupied.
func WSHandler(logger *logrus.Logger, s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{subprotocol},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != subprotocol {
			c.Close(BadSubprotocolError, "client must speak the promptfall subprotocol")
			return
		}

		connID, _ := uuid.NewRandom()
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		client := NewClient(connID, cancel)
		s.Registry.Add(client)
		logger.WithFields(logrus.Fields{
			"connection": connID,
			"remote":     r.RemoteAddr,
		}).Info("connection established")

		client.Send(game.Event{Type: game.EventConnected, ConnectionID: connID.String()})

		go writePump(ctx, c, client, logger)
		readPump(ctx, c, s, client, logger)

		// Transport gone: unregister and treat it as an implicit leave.
		s.Registry.Remove(connID)
		s.Rooms.LeaveRoom(connID)
		client.Close()
		if s.Closing() {
			c.Close(ServerShutdownError, "server shutting down")
		} else {
			c.Close(websocket.StatusNormalClosure, "")
		}
		logger.WithField("connection", connID).Info("connection closed")
	}
}

// readPump decodes inbound messages and hands them to Dispatch. It exits
// on read error, normal closure or context cancellation.
func readPump(ctx context.Context, c *websocket.Conn, s *Server, client *Client, logger *logrus.Logger) {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("connection %s closed normally", client.ID)
			} else if !strings.Contains(err.Error(), "context canceled") {
				logger.Warnf("read error for connection %s: %v", client.ID, err)
			}
			return
		}
		if typ != websocket.MessageText {
			logger.Warnf("ignoring non-text message from connection %s", client.ID)
			continue
		}
		s.Dispatch(ctx, client, data)
	}
}

// writePump drains the client's outbound queue onto the socket, pinging
// periodically. A write or ping failure means the connection is gone; the
// pump cancels the connection context and exits, and the read side
// performs cleanup.
func writePump(ctx context.Context, c *websocket.Conn, client *Client, logger *logrus.Logger) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-client.OutChan:
			data, err := json.Marshal(ev)
			if err != nil {
				logger.Warnf("marshal outbound %s event for connection %s: %v", ev.Type, client.ID, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("write to connection %s failed: %v", client.ID, err)
				client.Close()
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Warnf("ping to connection %s failed, assuming disconnect: %v", client.ID, err)
				client.Close()
				return
			}
		}
	}
}
