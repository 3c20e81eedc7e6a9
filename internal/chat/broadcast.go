package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const channelPrefix = "chat:conversation:"

// Broadcaster fans a frame out to the clients of a conversation.
type Broadcaster interface {
	Broadcast(ctx context.Context, conversationID uint64, frame []byte) error
}

type localBroadcaster struct{ hub *Hub }

func (b localBroadcaster) Broadcast(_ context.Context, conversationID uint64, frame []byte) error {
	b.hub.deliver(conversationID, frame)
	return nil
}

// RedisBroadcaster publishes frames on a per conversation channel. Run
// subscribes to all of them and hands what arrives to the hub, so an
// instance also receives its own broadcasts.
type RedisBroadcaster struct {
	rdb *redis.Client
	hub *Hub
	log logrus.FieldLogger
}

func NewRedisBroadcaster(rdb *redis.Client, hub *Hub, log logrus.FieldLogger) *RedisBroadcaster {
	return &RedisBroadcaster{rdb: rdb, hub: hub, log: log}
}

func (b *RedisBroadcaster) Broadcast(ctx context.Context, conversationID uint64, frame []byte) error {
	channel := channelPrefix + strconv.FormatUint(conversationID, 10)
	if err := b.rdb.Publish(ctx, channel, frame).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Run relays Redis messages to local clients until ctx is done.
func (b *RedisBroadcaster) Run(ctx context.Context) error {
	sub := b.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe: %w", err)
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			id, err := strconv.ParseUint(strings.TrimPrefix(msg.Channel, channelPrefix), 10, 64)
			if err != nil || !json.Valid([]byte(msg.Payload)) {
				b.log.WithField("channel", msg.Channel).Warn("chat: dropping malformed broadcast")
				continue
			}
			b.hub.deliver(id, []byte(msg.Payload))
		}
	}
}
