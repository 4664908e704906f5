// Command notifytail prints notification events published to Redis.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"whiskaway/internal/cache"
	"whiskaway/internal/config"
	"whiskaway/internal/models"
	"whiskaway/internal/notifications"
)

func main() {
	profileID := flag.Uint("profile", 0, "Only follow this profile (default: all profiles)")
	raw := flag.Bool("raw", false, "Print payloads unformatted")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	cache.InitRedis(cfg.RedisURL)
	rdb := cache.GetClient()
	if rdb == nil {
		log.Fatalf("Redis unavailable at %s", cfg.RedisURL)
	}
	defer func() { _ = rdb.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	show := func(channel, payload string) {
		if *raw {
			fmt.Printf("%s %s\n", channel, payload)
			return
		}
		fmt.Println(describe(channel, payload))
	}

	n := notifications.NewNotifier(rdb)
	if *profileID != 0 {
		err = n.StartProfileSubscriber(ctx, uint(*profileID), show)
	} else {
		err = n.StartPatternSubscriber(ctx, show)
	}
	if err != nil {
		log.Fatalf("Subscribe failed: %v", err)
	}

	log.Println("Listening for notification events, Ctrl+C to stop")
	<-ctx.Done()
}

func describe(channel, payload string) string {
	var event models.NotificationEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return fmt.Sprintf("%s undecodable payload: %s", channel, payload)
	}
	profile, _ := notifications.ProfileIDFromChannel(channel)
	if event.Notification == nil {
		return fmt.Sprintf("profile=%d kind=%s", profile, event.Kind)
	}
	n := event.Notification
	from := "-"
	if n.FromProfileID != nil {
		from = fmt.Sprint(*n.FromProfileID)
	}
	return fmt.Sprintf("profile=%d kind=%s id=%d type=%s from=%s data=%s",
		profile, event.Kind, n.ID, n.Type, from, string(n.Data))
}
