package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/pkg/api"
	"github.com/plomlompom/plomrogue-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и инстансом
type Client struct {
	server  *Server
	Conn    *websocket.Conn
	Send    chan api.ViewUpdate
	ThingID domain.ThingID
	Session string
}

// NewClient подписывает клиента на снимки сущности и сразу кладет первый снимок.
func NewClient(s *Server, conn *websocket.Conn, id domain.ThingID, session string) *Client {
	c := &Client{
		server:  s,
		Conn:    conn,
		Send:    s.Hub.Register(id),
		ThingID: id,
		Session: session,
	}
	if view, err := s.Instance.View(id); err == nil {
		s.Hub.SendTo(id, view)
	}
	return c
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		c.server.Hub.Unregister(c.ThingID, c.Send)
		// Сущность возвращается AI
		c.server.Instance.Release(c.ThingID, c.Session)
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection")
		}
		logger.Log.WithField("thing_id", c.ThingID).Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.WithError(err).Error("WS error")
			}
			return
		}

		internal, err := toInternal(c.ThingID, cmd)
		switch {
		case err != nil:
		case internal.Action == domain.ActionInit:
			err = c.resync()
		default:
			err = c.server.Instance.Submit(internal)
		}
		if err != nil {
			logger.Log.WithFields(logrus.Fields{
				"thing_id": c.ThingID,
				"action":   cmd.Action,
			}).WithError(err).Warn("Command rejected")
		}
	}
}

// toInternal разбирает команду клиента
func toInternal(id domain.ThingID, cmd api.ClientCommand) (domain.InternalCommand, error) {
	if err := cmd.Validate(); err != nil {
		return domain.InternalCommand{}, err
	}
	res := domain.InternalCommand{Action: domain.ParseAction(cmd.Action), Actor: id}
	switch res.Action {
	case domain.ActionMove:
		dir, ok := domain.ParseDirection(cmd.Dir)
		if !ok {
			return res, fmt.Errorf("unknown direction %q", cmd.Dir)
		}
		res.Dir = dir
	case domain.ActionWait, domain.ActionInit:
	default:
		return res, fmt.Errorf("unknown action %q", cmd.Action)
	}
	return res, nil
}

// resync кладет в канал клиента свежий снимок (например, если прошлый был отброшен хабом).
func (c *Client) resync() error {
	view, err := c.server.Instance.View(c.ThingID)
	if err != nil {
		return err
	}
	c.server.Hub.SendTo(c.ThingID, view)
	return nil
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				// Hub закрыл канал: клиента сняли с подписки
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
