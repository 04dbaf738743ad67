// Package devlog provides print-only broadcast and messenger adapters
// for development deployments without real channel credentials. Every
// send is logged and reported successful.
package devlog

import (
	"context"

	"github.com/linnemanlabs/go-core/log"
)

// Broadcaster logs public posts instead of sending them.
type Broadcaster struct {
	name   string
	logger log.Logger
}

// NewBroadcaster creates a logging broadcaster for the named channel.
func NewBroadcaster(name string, logger log.Logger) *Broadcaster {
	if logger == nil {
		logger = log.Nop()
	}
	return &Broadcaster{name: name, logger: logger}
}

// Name returns the channel name.
func (b *Broadcaster) Name() string { return b.name }

// Post logs the message.
func (b *Broadcaster) Post(ctx context.Context, message string) error {
	b.logger.Info(ctx, "broadcast", "channel", b.name, "message", message)
	return nil
}

// Messenger logs group and direct messages instead of sending them.
type Messenger struct {
	logger log.Logger
}

// NewMessenger creates a logging messenger.
func NewMessenger(logger log.Logger) *Messenger {
	if logger == nil {
		logger = log.Nop()
	}
	return &Messenger{logger: logger}
}

// SendGroup logs a group message.
func (m *Messenger) SendGroup(ctx context.Context, groupID, message string) error {
	m.logger.Info(ctx, "group message", "group_id", groupID, "message", message)
	return nil
}

// SendDirect logs a direct message.
func (m *Messenger) SendDirect(ctx context.Context, phone, message string) error {
	m.logger.Info(ctx, "direct message", "phone", phone, "message", message)
	return nil
}
