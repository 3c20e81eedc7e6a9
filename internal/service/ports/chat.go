package ports

import (
	"context"

	"github.com/fasthotel/hotel-api/internal/model"
)

type ChatRepo interface {
	FindOpenByGuest(ctx context.Context, guestID uint64) (*model.Conversation, error)
	CreateConversation(ctx context.Context, c *model.Conversation) error
	GetConversation(ctx context.Context, id uint64) (*model.Conversation, error)
	ListConversations(ctx context.Context) ([]model.ConversationView, error)
	ListMessages(ctx context.Context, conversationID uint64) ([]model.Message, error)
	CreateMessage(ctx context.Context, m *model.Message) error
	MarkRead(ctx context.Context, conversationID uint64, senderType string) (int64, error)
}
