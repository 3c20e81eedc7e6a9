package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/fasthotel/hotel-api/internal/model"
)

type ChatAPI interface {
	Open(ctx context.Context, p model.Principal, guestID uint64, attendantID *uint64) (*model.Conversation, bool, error)
	List(ctx context.Context, p model.Principal) ([]model.ConversationView, error)
	Messages(ctx context.Context, p model.Principal, conversationID uint64) ([]model.Message, error)
	MarkRead(ctx context.Context, p model.Principal, conversationID uint64, senderType string) (int64, error)
}

// ChatServer upgrades a request to a websocket session for p.
type ChatServer interface {
	Serve(w http.ResponseWriter, r *http.Request, p model.Principal) error
}

// ChatHandler serves conversation history and the live socket.
type ChatHandler struct {
	svc ChatAPI
	ws  ChatServer
	log logrus.FieldLogger
}

func NewChatHandler(svc ChatAPI, ws ChatServer, log logrus.FieldLogger) *ChatHandler {
	return &ChatHandler{svc: svc, ws: ws, log: log}
}

type openConversationReq struct {
	GuestID         uint64  `json:"guest_id"`
	AttendantUserID *uint64 `json:"attendant_user_id" validate:"omitempty,gt=0"`
}

type markReadReq struct {
	SenderType string `json:"sender_type" validate:"required,oneof=user guest"`
}

// Open starts a conversation, or returns the guest's open one with 200.
// Guest accounts always talk as their linked guest.
func (h *ChatHandler) Open(c echo.Context) error {
	var req openConversationReq
	if err := bind(c, &req); err != nil {
		return err
	}
	p := principal(c)
	if p.Role == model.RoleGuest && p.GuestID != nil {
		req.GuestID = *p.GuestID
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	conv, created, err := h.svc.Open(ctx, p, req.GuestID, req.AttendantUserID)
	if err != nil {
		return err
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, conv)
}

func (h *ChatHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.svc.List(ctx, principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *ChatHandler) Messages(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	msgs, err := h.svc.Messages(ctx, principal(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgs)
}

func (h *ChatHandler) MarkRead(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req markReadReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.svc.MarkRead(ctx, principal(c), id, req.SenderType)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": n})
}

// Socket hands the connection to the chat hub. It returns once the client
// disconnects.
func (h *ChatHandler) Socket(c echo.Context) error {
	if err := h.ws.Serve(c.Response(), c.Request(), principal(c)); err != nil {
		// Upgrade failures have already been answered by the upgrader.
		h.log.WithError(err).Debug("websocket upgrade failed")
	}
	return nil
}
