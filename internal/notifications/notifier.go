// Package notifications fans notification events out over Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"strings"

	"whiskaway/internal/middleware"
	"whiskaway/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	profileChannelPrefix = "notifications:profile:"
	profileChannelGlob   = profileChannelPrefix + "*"
)

// Notifier publishes notification events into per-profile Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client turns every call into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishProfile sends a raw payload to a profile's channel.
func (n *Notifier) PublishProfile(ctx context.Context, profileID uint, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, ProfileChannel(profileID), payload).Err()
}

// PublishEvent encodes event as JSON and publishes it to the affected profile.
func (n *Notifier) PublishEvent(ctx context.Context, event models.NotificationEvent) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}
	return n.PublishProfile(ctx, event.ProfileID, string(payload))
}

// Subscriber adapts the notifier to the notification service callback shape.
func (n *Notifier) Subscriber() func(context.Context, models.NotificationEvent) error {
	return n.PublishEvent
}

// StartPatternSubscriber subscribes to every profile channel and calls
// onMessage for each incoming message until ctx is done.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, profileChannelGlob)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("psubscribe %s: %w", profileChannelGlob, err)
	}
	go pump(ctx, sub, onMessage)
	return nil
}

// StartProfileSubscriber subscribes to a single profile channel.
func (n *Notifier) StartProfileSubscriber(
	ctx context.Context, profileID uint, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	channel := ProfileChannel(profileID)
	sub := n.rdb.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", channel, err)
	}
	go pump(ctx, sub, onMessage)
	return nil
}

func pump(ctx context.Context, sub *redis.PubSub, onMessage func(channel string, payload string)) {
	ch := sub.Channel()
	defer func() { _ = sub.Close() }()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			func() {
				defer func() {
					if r := recover(); r != nil {
						middleware.Logger.Error("panic in notification subscriber",
							slog.Any("panic", r),
							slog.String("channel", msg.Channel),
							slog.String("stack", string(debug.Stack())),
						)
					}
				}()
				onMessage(msg.Channel, msg.Payload)
			}()
		}
	}
}

// ProfileChannel derives the Redis channel name for a profile.
func ProfileChannel(profileID uint) string {
	return profileChannelPrefix + strconv.FormatUint(uint64(profileID), 10)
}

// ProfileIDFromChannel parses a channel produced by ProfileChannel.
func ProfileIDFromChannel(channel string) (uint, bool) {
	raw, ok := strings.CutPrefix(channel, profileChannelPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
