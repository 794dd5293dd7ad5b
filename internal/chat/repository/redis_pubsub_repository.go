package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"realtime_chat_service/internal/chat/domain"
	"realtime_chat_service/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// ConversationChannel the pub/sub channel of one conversation
func ConversationChannel(convID string) string {
	return fmt.Sprintf("chat:conversation:%s", convID)
}

// EventPublisher publish side of the conversation event bus
type EventPublisher interface {
	Publish(channel string, message interface{}) error
}

// EventSubscriber subscribe side of the conversation event bus
type EventSubscriber interface {
	Subscribe(ctx context.Context, channel string, handler func(event domain.ConversationEvent)) error
}

// EventBus both sides of the conversation event bus
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// RedisPubSub definition redis pub/sub event bus
type RedisPubSub struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisPubSub create RedisPubSub
func NewRedisPubSub(client *redis.Client) *RedisPubSub {
	return &RedisPubSub{
		client: client,
		ctx:    context.Background(),
	}
}

// Publish marshal the message and publish it on the channel
func (r *RedisPubSub) Publish(channel string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return r.client.Publish(r.ctx, channel, data).Err()
}

// Subscribe listen on the channel and call handler for every event until
// ctx is cancelled. Cancelling closes the underlying subscription, after
// which no further callbacks fire.
func (r *RedisPubSub) Subscribe(ctx context.Context, channel string, handler func(event domain.ConversationEvent)) error {
	sub := r.client.Subscribe(r.ctx, channel)
	go func() {
		ch := sub.Channel()

		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}

				var event domain.ConversationEvent
				if err := json.Unmarshal([]byte(m.Payload), &event); err != nil {
					logger.Log.Errorf("unmarshal conversation event:", err)
					continue
				}

				handler(event)
			case <-ctx.Done():
				logger.Log.Info(fmt.Sprintf("%s , sub close", channel))
				sub.Close()
			}
		}
	}()
	return nil
}
