package gnuplot

import (
	"context"

	"github.com/goliatone/go-gnuplot/pkg/activity"
)

// ActivityIdentity names who performs destructive changes on an entity.
type ActivityIdentity struct {
	ActorID  string
	UserID   string
	TenantID string
}

// WithActivityHooks attaches hooks notified after every in-place change.
// Nil entries are dropped and the slice is copied.
func WithActivityHooks(hooks activity.Hooks) Option {
	hooks = hooks.Compact()
	return func(cfg *entityConfig) {
		cfg.activityHooks = hooks
	}
}

// WithActivityChannel overrides the channel stamped on emitted events.
func WithActivityChannel(channel string) Option {
	return func(cfg *entityConfig) {
		cfg.activityChannel = channel
	}
}

// WithActivityIdentity stamps emitted events with the given identity.
func WithActivityIdentity(identity ActivityIdentity) Option {
	return func(cfg *entityConfig) {
		cfg.identity = identity
	}
}

// entityEvent prefills the identity fields of an event input.
func (cfg *entityConfig) entityEvent(entityType, entityID string) activity.EntityEventInput {
	if cfg == nil {
		return activity.EntityEventInput{EntityType: entityType, EntityID: entityID}
	}
	return activity.EntityEventInput{
		ActorID:    cfg.identity.ActorID,
		UserID:     cfg.identity.UserID,
		TenantID:   cfg.identity.TenantID,
		EntityType: entityType,
		EntityID:   entityID,
	}
}

// newEmitter is called once per configuration. Hook failures are logged
// and never surface to the caller of the mutating operation.
func (cfg *entityConfig) newEmitter() *activity.Emitter {
	logger := cfg.log()
	return activity.NewEmitter(cfg.activityHooks, activity.Config{
		Enabled: len(cfg.activityHooks) > 0,
		Channel: cfg.activityChannel,
		OnError: func(event activity.Event, err error) {
			logger.Warn("gnuplot activity hook failed",
				"verb", event.Verb,
				"object_type", event.ObjectType,
				"object_id", event.ObjectID,
				"error", err,
			)
		},
	})
}

func (cfg *entityConfig) emit(event activity.Event) {
	if cfg == nil {
		return
	}
	_ = cfg.emitter.Emit(context.Background(), event)
}

// changedKeys lists keys whose value differs between before and after.
func changedKeys(before, after Store) []string {
	var keys []string
	after.Each(func(key string, value Value) {
		if old, ok := before.Get(key); !ok || !old.Equal(value) {
			keys = append(keys, key)
		}
	})
	return keys
}

func intPtr(i int) *int { return &i }
