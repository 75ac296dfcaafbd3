package social

import (
	"context"
	"log/slog"
)

// NoticeKind classifies a user-facing notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notifier receives short status messages meant for the person using the
// application, e.g. "Comment added." or "Network error...".
type Notifier interface {
	Notify(ctx context.Context, kind NoticeKind, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, kind NoticeKind, message string)

func (f NotifierFunc) Notify(ctx context.Context, kind NoticeKind, message string) {
	f(ctx, kind, message)
}

// SlogNotifier writes notices to a structured logger.
type SlogNotifier struct {
	Logger *slog.Logger
}

func (n *SlogNotifier) Notify(ctx context.Context, kind NoticeKind, message string) {
	if n == nil || n.Logger == nil {
		return
	}
	level := slog.LevelInfo
	if kind == NoticeError {
		level = slog.LevelWarn
	}
	n.Logger.Log(ctx, level, message, "kind", string(kind))
}
