package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/fasthotel/hotel-api/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 << 10
	sendBuffer     = 32
)

// Messenger authorises room access and persists messages.
type Messenger interface {
	Authorize(ctx context.Context, p model.Principal, conversationID uint64) (*model.Conversation, error)
	Send(ctx context.Context, p model.Principal, conversationID uint64, content string) (*model.Message, error)
}

// Hub tracks connected clients by conversation.
type Hub struct {
	messenger Messenger
	log       logrus.FieldLogger
	upgrader  websocket.Upgrader
	out       Broadcaster

	mu    sync.RWMutex
	rooms map[uint64]map[*client]struct{}
}

// NewHub builds a hub that delivers in process. Call UseBroadcaster to
// relay through Redis instead. An empty origins list accepts any origin.
func NewHub(m Messenger, origins []string, log logrus.FieldLogger) *Hub {
	h := &Hub{
		messenger: m,
		log:       log,
		rooms:     make(map[uint64]map[*client]struct{}),
	}
	h.out = localBroadcaster{hub: h}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     allowOrigins(origins),
	}
	return h
}

func (h *Hub) UseBroadcaster(b Broadcaster) { h.out = b }

func allowOrigins(origins []string) func(*http.Request) bool {
	if len(origins) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]bool, len(origins))
	for _, o := range origins {
		set[o] = true
	}
	return func(r *http.Request) bool {
		o := r.Header.Get("Origin")
		return o == "" || set[o]
	}
}

// Serve upgrades the request and runs the client until it disconnects.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, p model.Principal) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		who:  p,
		send: make(chan []byte, sendBuffer),
	}
	h.log.WithFields(logrus.Fields{"client_id": c.id, "user_id": p.UserID}).Info("chat client connected")

	go c.writePump()
	c.readPump()
	return nil
}

func (h *Hub) join(c *client, conversationID uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[conversationID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[conversationID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) leaveAll(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, room := range h.rooms {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, id)
		}
	}
}

// deliver queues frame for every local client of the conversation. Slow
// clients whose buffer is full miss the frame.
func (h *Hub) deliver(conversationID uint64, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[conversationID] {
		select {
		case c.send <- frame:
		default:
			h.log.WithField("client_id", c.id).Warn("chat client too slow, frame dropped")
		}
	}
}

// Clients returns the number of local clients in a conversation.
func (h *Hub) Clients(conversationID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[conversationID])
}

type client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	who  model.Principal
	send chan []byte

	closeOnce sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.send) })
}

func (c *client) readPump() {
	defer func() {
		c.hub.leaveAll(c)
		c.close()
		_ = c.conn.Close()
		c.hub.log.WithField("client_id", c.id).Info("chat client disconnected")
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				c.hub.log.WithError(err).WithField("client_id", c.id).Debug("chat read ended")
			}
			return
		}
		c.handle(env)
	}
}

func (c *client) handle(env Envelope) {
	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()

	switch env.Event {
	case EventJoinRoom:
		var in joinRoom
		if err := decodeData(env, &in); err != nil {
			c.fail(err)
			return
		}
		if _, err := c.hub.messenger.Authorize(ctx, c.who, in.ConversationID); err != nil {
			c.fail(err)
			return
		}
		c.hub.join(c, in.ConversationID)

	case EventSendMessage:
		var in sendMessage
		if err := decodeData(env, &in); err != nil {
			c.fail(err)
			return
		}
		msg, err := c.hub.messenger.Send(ctx, c.who, in.ConversationID, in.Content)
		if err != nil {
			c.fail(err)
			return
		}
		frame, err := encode(EventReceiveMessage, msg)
		if err != nil {
			c.fail(err)
			return
		}
		if err := c.hub.out.Broadcast(ctx, in.ConversationID, frame); err != nil {
			c.hub.log.WithError(err).WithField("conversation_id", in.ConversationID).Error("chat broadcast failed")
			c.fail(errUndelivered)
		}

	default:
		c.fail(errUnknownEvent)
	}
}

var (
	errBadPayload   = errors.New("invalid event payload")
	errUnknownEvent = errors.New("unknown event")
	errUndelivered  = errors.New("message stored but could not be delivered")
)

func decodeData(env Envelope, v any) error {
	if len(env.Data) == 0 {
		return errBadPayload
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return errBadPayload
	}
	return nil
}

// fail tells only this client what went wrong. Unexpected errors are
// logged and reported without detail.
func (c *client) fail(err error) {
	text := err.Error()
	switch {
	case errors.Is(err, model.ErrForbidden):
		text = "forbidden"
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrBadRequest), errors.Is(err, model.ErrConflict),
		errors.Is(err, errBadPayload), errors.Is(err, errUnknownEvent), errors.Is(err, errUndelivered):
	default:
		c.hub.log.WithError(err).WithField("client_id", c.id).Warn("chat event failed")
		text = "internal error"
	}
	frame, encErr := encode(EventMessageError, messageError{Error: text})
	if encErr != nil {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
