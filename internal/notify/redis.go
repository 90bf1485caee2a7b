package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/zulvanavito/Plastira/internal/models"
	"go.uber.org/zap"
)

var _ Registry = (*RedisRegistry)(nil)

const defaultPublishTimeout = 2 * time.Second

// envelope is the wire format on the shared channel. An empty Key means broadcast.
type envelope struct {
	Origin  string          `json:"origin"`
	Key     string          `json:"key,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// RedisRegistry fans events out across API instances over Redis pub/sub.
// Each instance delivers to its own sessions through a local Hub.
type RedisRegistry struct {
	local          *Hub
	client         *redis.Client
	pubsub         *redis.PubSub
	channel        string
	nodeID         string
	publishTimeout time.Duration
	logger         *zap.Logger
	done           chan struct{}
}

// NewRedisRegistry subscribes to channel and starts relaying remote events
// to local sessions. It returns once the subscription is confirmed.
func NewRedisRegistry(ctx context.Context, client *redis.Client, channel string, local *Hub, logger *zap.Logger) (*RedisRegistry, error) {
	pubsub := client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", channel, err)
	}

	r := &RedisRegistry{
		local:          local,
		client:         client,
		pubsub:         pubsub,
		channel:        channel,
		nodeID:         uuid.NewString(),
		publishTimeout: defaultPublishTimeout,
		logger:         logger.With(zap.String("channel", channel)),
		done:           make(chan struct{}),
	}
	go r.listen()
	return r, nil
}

// Register adds s to a room on this instance
func (r *RedisRegistry) Register(key string, s Session) { r.local.Register(key, s) }

// Unregister removes s from a room on this instance
func (r *RedisRegistry) Unregister(key string, s Session) { r.local.Unregister(key, s) }

// EmitToKey delivers locally right away and relays to the other instances
func (r *RedisRegistry) EmitToKey(_ context.Context, key string, n models.Notification) {
	payload, ok := r.local.encode(n)
	if !ok {
		return
	}
	r.local.deliverKey(key, payload)
	r.publish(envelope{Origin: r.nodeID, Key: key, Payload: payload})
}

// Broadcast delivers locally right away and relays to the other instances
func (r *RedisRegistry) Broadcast(_ context.Context, n models.Notification) {
	payload, ok := r.local.encode(n)
	if !ok {
		return
	}
	r.local.deliverAll(payload)
	r.publish(envelope{Origin: r.nodeID, Payload: payload})
}

// publish runs detached from the request so a slow Redis never delays it
func (r *RedisRegistry) publish(env envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		r.logger.Error("Failed to encode envelope", zap.Error(err))
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.publishTimeout)
		defer cancel()
		if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
			r.logger.Warn("Failed to publish notification", zap.Error(err))
		}
	}()
}

func (r *RedisRegistry) listen() {
	defer close(r.done)
	for msg := range r.pubsub.Channel() {
		var env envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			r.logger.Warn("Ignoring malformed envelope", zap.Error(err))
			continue
		}
		if env.Origin == r.nodeID {
			continue
		}
		if env.Key == "" {
			r.local.deliverAll(env.Payload)
		} else {
			r.local.deliverKey(env.Key, env.Payload)
		}
	}
}

// Close unsubscribes and waits for the relay loop to exit
func (r *RedisRegistry) Close() error {
	err := r.pubsub.Close()
	<-r.done
	if err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}
