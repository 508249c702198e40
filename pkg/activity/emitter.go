package activity

import (
	"context"
	"strings"
)

// DefaultChannel is stamped on events that carry no channel.
const DefaultChannel = "gnuplot"

// Config tunes an Emitter.
type Config struct {
	Enabled bool
	// Channel replaces DefaultChannel when set.
	Channel string
	// OnError sees every failed delivery. Emit still returns the error.
	OnError func(event Event, err error)
}

// Emitter delivers entity events to hooks. The nil Emitter is disabled.
type Emitter struct {
	hooks   Hooks
	channel string
	onError func(Event, error)
}

// NewEmitter returns an emitter for hooks, or nil when cfg disables it or no
// hook is left after dropping nil entries.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	hooks = hooks.Compact()
	if !cfg.Enabled || len(hooks) == 0 {
		return nil
	}
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = DefaultChannel
	}
	return &Emitter{hooks: hooks, channel: channel, onError: cfg.OnError}
}

func (e *Emitter) Enabled() bool {
	return e != nil && len(e.hooks) > 0
}

// Emit stamps the emitter's channel on event unless it names its own and
// delivers it.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	err := e.hooks.Notify(ctx, event)
	if err != nil && e.onError != nil {
		e.onError(event, err)
	}
	return err
}
