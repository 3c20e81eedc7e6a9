package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fasthotel/hotel-api/internal/model"
)

// ChatRepo stores front desk conversations and their messages.
type ChatRepo struct{ q DBTX }

func NewChatRepo(q DBTX) *ChatRepo { return &ChatRepo{q: q} }

const conversationColumns = `id, guest_id, attendant_user_id, status, started_at, ended_at`

func scanConversation(s scanner) (*model.Conversation, error) {
	var c model.Conversation
	if err := s.Scan(&c.ID, &c.GuestID, &c.AttendantUserID, &c.Status, &c.StartedAt, &c.EndedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindOpenByGuest returns the open conversation of a guest, or nil.
func (r *ChatRepo) FindOpenByGuest(ctx context.Context, guestID uint64) (*model.Conversation, error) {
	c, err := scanConversation(r.q.QueryRowContext(ctx,
		`SELECT `+conversationColumns+` FROM chat_conversations WHERE guest_id = ? AND status = 'open' ORDER BY id DESC LIMIT 1`,
		guestID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *ChatRepo) CreateConversation(ctx context.Context, c *model.Conversation) error {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO chat_conversations (guest_id, attendant_user_id, status, started_at) VALUES (?, ?, ?, ?)`,
		c.GuestID, c.AttendantUserID, c.Status, c.StartedAt)
	if err != nil {
		return translate(err, nil, nil)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

func (r *ChatRepo) GetConversation(ctx context.Context, id uint64) (*model.Conversation, error) {
	c, err := scanConversation(r.q.QueryRowContext(ctx,
		`SELECT `+conversationColumns+` FROM chat_conversations WHERE id = ?`, id))
	if err != nil {
		return nil, translate(err, nil, model.ErrConversationNotFound)
	}
	return c, nil
}

// ListConversations returns every conversation with guest, attendant and
// last message details, most recently active first.
func (r *ChatRepo) ListConversations(ctx context.Context) ([]model.ConversationView, error) {
	const q = `SELECT c.id, c.guest_id, c.attendant_user_id, c.status, c.started_at, c.ended_at,
	                  g.first_name, g.last_name, g.document, u.name,
	                  (SELECT m.content FROM chat_messages m WHERE m.conversation_id = c.id ORDER BY m.sent_at DESC, m.id DESC LIMIT 1),
	                  (SELECT MAX(m.sent_at) FROM chat_messages m WHERE m.conversation_id = c.id)
	           FROM chat_conversations c
	           JOIN guests g ON g.id = c.guest_id
	           LEFT JOIN users u ON u.id = c.attendant_user_id
	           ORDER BY COALESCE((SELECT MAX(m.sent_at) FROM chat_messages m WHERE m.conversation_id = c.id), c.started_at) DESC`
	rows, err := r.q.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ConversationView, 0)
	for rows.Next() {
		var v model.ConversationView
		if err := rows.Scan(&v.ID, &v.GuestID, &v.AttendantUserID, &v.Status, &v.StartedAt, &v.EndedAt,
			&v.GuestFirstName, &v.GuestLastName, &v.GuestDocument, &v.AttendantName,
			&v.LastMessage, &v.LastMessageAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ListMessages returns a conversation's messages oldest first, with the
// display name of each sender.
func (r *ChatRepo) ListMessages(ctx context.Context, conversationID uint64) ([]model.Message, error) {
	const q = `SELECT m.id, m.conversation_id, m.sender_type, m.sender_id, m.content, m.sent_at, m.is_read,
	                  COALESCE(IF(m.sender_type = 'user', u.name, CONCAT_WS(' ', g.first_name, g.last_name)), '')
	           FROM chat_messages m
	           LEFT JOIN users u ON m.sender_type = 'user' AND u.id = m.sender_id
	           LEFT JOIN guests g ON m.sender_type = 'guest' AND g.id = m.sender_id
	           WHERE m.conversation_id = ?
	           ORDER BY m.sent_at, m.id`
	rows, err := r.q.QueryContext(ctx, q, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderType, &m.SenderID, &m.Content, &m.SentAt, &m.Read, &m.SenderName); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *ChatRepo) CreateMessage(ctx context.Context, m *model.Message) error {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO chat_messages (conversation_id, sender_type, sender_id, content, sent_at) VALUES (?, ?, ?, ?, ?)`,
		m.ConversationID, m.SenderType, m.SenderID, m.Content, m.SentAt)
	if err != nil {
		return translate(err, nil, nil)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// MarkRead flags unread messages of senderType in a conversation and
// returns how many changed.
func (r *ChatRepo) MarkRead(ctx context.Context, conversationID uint64, senderType string) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE chat_messages SET is_read = TRUE WHERE conversation_id = ? AND sender_type = ? AND is_read = FALSE`,
		conversationID, senderType)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
