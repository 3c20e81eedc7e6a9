package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fasthotel/hotel-api/internal/model"
	"github.com/fasthotel/hotel-api/internal/service/ports"
)

// ChatService persists front desk conversations and decides who may read
// or write them.
type ChatService struct {
	chat   ports.ChatRepo
	guests ports.GuestRepo
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewChatService(chat ports.ChatRepo, guests ports.GuestRepo, log logrus.FieldLogger) *ChatService {
	return &ChatService{chat: chat, guests: guests, log: log, now: time.Now}
}

// Open starts a conversation for a guest, or returns the one already open.
// created tells the two cases apart. Guest accounts may only open their own.
func (s *ChatService) Open(ctx context.Context, p model.Principal, guestID uint64, attendantID *uint64) (conv *model.Conversation, created bool, err error) {
	if guestID == 0 {
		return nil, false, fmt.Errorf("guest_id is required: %w", model.ErrBadRequest)
	}
	switch {
	case p.IsStaff():
	case p.Role == model.RoleGuest && p.GuestID != nil && *p.GuestID == guestID:
	default:
		return nil, false, model.ErrForbidden
	}

	if _, err := s.guests.GetByID(ctx, guestID); err != nil {
		return nil, false, err
	}
	existing, err := s.chat.FindOpenByGuest(ctx, guestID)
	if err != nil {
		return nil, false, fmt.Errorf("lookup open conversation: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	conv = &model.Conversation{
		GuestID:         guestID,
		AttendantUserID: attendantID,
		Status:          model.ConversationOpen,
		StartedAt:       s.now().UTC(),
	}
	if err := s.chat.CreateConversation(ctx, conv); err != nil {
		return nil, false, fmt.Errorf("create conversation: %w", err)
	}
	s.log.WithFields(logrus.Fields{"conversation_id": conv.ID, "guest_id": guestID}).Info("conversation opened")
	return conv, true, nil
}

// List returns every conversation with its last message, for the desk.
func (s *ChatService) List(ctx context.Context, p model.Principal) ([]model.ConversationView, error) {
	if !p.IsStaff() {
		return nil, model.ErrForbidden
	}
	return s.chat.ListConversations(ctx)
}

// Authorize loads a conversation and checks the caller may take part in
// it: staff always, guest accounts for their own guest, any other user
// only as the assigned attendant.
func (s *ChatService) Authorize(ctx context.Context, p model.Principal, conversationID uint64) (*model.Conversation, error) {
	conv, err := s.chat.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if p.IsStaff() {
		return conv, nil
	}
	if p.Role == model.RoleGuest {
		if p.GuestID == nil || *p.GuestID != conv.GuestID {
			return nil, model.ErrForbidden
		}
		return conv, nil
	}
	if conv.AttendantUserID == nil || *conv.AttendantUserID != p.UserID {
		return nil, model.ErrForbidden
	}
	return conv, nil
}

// Messages returns a conversation's messages, oldest first.
func (s *ChatService) Messages(ctx context.Context, p model.Principal, conversationID uint64) ([]model.Message, error) {
	if _, err := s.Authorize(ctx, p, conversationID); err != nil {
		return nil, err
	}
	return s.chat.ListMessages(ctx, conversationID)
}

// MarkRead flags as read the messages sent by senderType in a conversation.
func (s *ChatService) MarkRead(ctx context.Context, p model.Principal, conversationID uint64, senderType string) (int64, error) {
	if senderType != model.SenderUser && senderType != model.SenderGuest {
		return 0, fmt.Errorf("sender type must be user or guest: %w", model.ErrBadRequest)
	}
	if _, err := s.Authorize(ctx, p, conversationID); err != nil {
		return 0, err
	}
	return s.chat.MarkRead(ctx, conversationID, senderType)
}

// Send stores a message written by the caller. Guest accounts write as the
// guest, everybody else as a user.
func (s *ChatService) Send(ctx context.Context, p model.Principal, conversationID uint64, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("message content is empty: %w", model.ErrBadRequest)
	}
	conv, err := s.Authorize(ctx, p, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.Status != model.ConversationOpen {
		return nil, fmt.Errorf("conversation is closed: %w", model.ErrConflict)
	}

	msg := &model.Message{
		ConversationID: conversationID,
		SenderType:     model.SenderUser,
		SenderID:       p.UserID,
		Content:        content,
		SentAt:         s.now().UTC(),
	}
	if p.Role == model.RoleGuest && p.GuestID != nil {
		msg.SenderType = model.SenderGuest
		msg.SenderID = *p.GuestID
	}
	if err := s.chat.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}
	return msg, nil
}
