package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/Skotchmaster/shop_api/internal/events"
)

// publish sends ev on topic. Failures are logged and otherwise ignored.
func publish(ctx context.Context, l *slog.Logger, p events.Publisher, topic, key string, ev events.Event) {
	if p == nil {
		return
	}
	ev.At = now()
	if err := p.Publish(ctx, topic, key, ev); err != nil {
		l.Error("publish_event_failed", "topic", topic, "type", ev.Type, "error", err)
	}
}

func idKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func now() time.Time {
	return time.Now().UTC()
}
