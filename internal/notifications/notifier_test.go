package notifications

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"whiskaway/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier(t *testing.T) *Notifier {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewNotifier(rdb)
}

func TestNotifier_NilClientIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.NoError(t, n.PublishProfile(context.Background(), 1, "test payload"))
	assert.NoError(t, n.PublishEvent(context.Background(), models.NotificationEvent{ProfileID: 1}))
	assert.NoError(t, n.StartPatternSubscriber(context.Background(), func(string, string) {}))
}

func TestProfileChannel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		profileID uint
		expected  string
	}{
		{1, "notifications:profile:1"},
		{100, "notifications:profile:100"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ProfileChannel(tt.profileID))
		id, ok := ProfileIDFromChannel(tt.expected)
		require.True(t, ok)
		assert.Equal(t, tt.profileID, id)
	}

	_, ok := ProfileIDFromChannel("notifications:user:3")
	assert.False(t, ok)
	_, ok = ProfileIDFromChannel("notifications:profile:abc")
	assert.False(t, ok)
}

func TestNotifier_PublishEventReachesPatternSubscriber(t *testing.T) {
	n := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type received struct{ channel, payload string }
	got := make(chan received, 1)
	require.NoError(t, n.StartPatternSubscriber(ctx, func(channel, payload string) {
		got <- received{channel, payload}
	}))

	event := models.NotificationEvent{
		Kind:         models.NotificationEmitted,
		ProfileID:    7,
		Notification: &models.Notification{ID: 3, Type: models.NotificationFriendRequest, ToProfileID: 7},
	}
	require.NoError(t, n.Subscriber()(context.Background(), event))

	select {
	case msg := <-got:
		assert.Equal(t, "notifications:profile:7", msg.channel)
		var decoded models.NotificationEvent
		require.NoError(t, json.Unmarshal([]byte(msg.payload), &decoded))
		assert.Equal(t, models.NotificationEmitted, decoded.Kind)
		require.NotNil(t, decoded.Notification)
		assert.Equal(t, uint(3), decoded.Notification.ID)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestNotifier_ProfileSubscriberStopsOnCancel(t *testing.T) {
	n := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var count int32
	payloads := make(chan string, 4)
	require.NoError(t, n.StartProfileSubscriber(ctx, 2, func(_ string, payload string) {
		atomic.AddInt32(&count, 1)
		payloads <- payload
	}))

	require.NoError(t, n.PublishProfile(context.Background(), 3, "other-profile"))
	require.NoError(t, n.PublishProfile(context.Background(), 2, "before-cancel"))
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&count) >= 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "before-cancel", <-payloads)

	cancel()
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, n.PublishProfile(context.Background(), 2, "after-cancel"))
	assert.Never(t, func() bool {
		select {
		case payload := <-payloads:
			return payload == "after-cancel"
		default:
			return false
		}
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestNotifier_SubscriberRecoversFromPanic(t *testing.T) {
	n := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int32
	require.NoError(t, n.StartPatternSubscriber(ctx, func(string, string) {
		if atomic.AddInt32(&calls, 1) == 1 {
			panic("bad payload")
		}
	}))

	require.NoError(t, n.PublishProfile(context.Background(), 1, "first"))
	require.NoError(t, n.PublishProfile(context.Background(), 1, "second"))
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 2
	}, time.Second, 10*time.Millisecond)
}
