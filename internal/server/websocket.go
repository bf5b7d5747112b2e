package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleWebSocket upgrades to WebSocket and streams session views to the
// client, starting with the current one.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	// Subscribe before taking the snapshot so no view falls in between.
	views := s.hub.Subscribe()
	defer s.hub.Unsubscribe(views)

	// Read pump: detect client disconnect.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	current, err := s.session.Snapshot(c.Request.Context())
	if err != nil {
		log.WithError(err).Warn("websocket snapshot failed")
		return
	}
	if err := write(conn, current); err != nil {
		return
	}

	// Write pump: send views as JSON.
	for {
		select {
		case <-gone:
			return
		case v, ok := <-views:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
				return
			}
			if v.Seq <= current.Seq {
				continue
			}
			if err := write(conn, v); err != nil {
				log.WithError(err).Debug("websocket write failed")
				return
			}
		}
	}
}

func write(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}
