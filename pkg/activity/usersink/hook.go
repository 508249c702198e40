package usersink

import (
	"context"
	"strings"

	"github.com/goliatone/go-gnuplot/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// DefaultVerbPrefix selects the events emitted by gnuplot entities.
const DefaultVerbPrefix = "gnuplot."

// Hook records gnuplot activity in a go-users ActivitySink. Only verbs
// starting with VerbPrefix (DefaultVerbPrefix when empty) are recorded; "*"
// records everything.
type Hook struct {
	Sink       usertypes.ActivitySink
	VerbPrefix string
}

func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	record, ok := Record(event)
	if !ok || !h.accepts(record.Verb) {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return h.Sink.Log(ctx, record)
}

// Record maps event to an activity record. The entity type is folded into
// the object type ("plot.dataset"), identities that are not UUIDs become
// uuid.Nil, and the definition code and recipients move into Data. ok is
// false for incomplete events.
func Record(event activity.Event) (record usertypes.ActivityRecord, ok bool) {
	event = activity.NormalizeEvent(event)
	if !event.Complete() {
		return record, false
	}

	data := event.Metadata
	objectType := event.ObjectType
	if entity, _ := data["entity_type"].(string); entity != "" {
		objectType = entity + "." + objectType
		delete(data, "entity_type")
	}
	extra := map[string]any{}
	if event.DefinitionCode != "" {
		extra["definition_code"] = event.DefinitionCode
	}
	if len(event.Recipients) > 0 {
		extra["recipients"] = event.Recipients
	}
	if len(extra) > 0 && data == nil {
		data = make(map[string]any, len(extra))
	}
	for key, value := range extra {
		data[key] = value
	}
	if len(data) == 0 {
		data = nil
	}

	return usertypes.ActivityRecord{
		ActorID:    identity(event.ActorID),
		UserID:     identity(event.UserID),
		TenantID:   identity(event.TenantID),
		Verb:       event.Verb,
		ObjectType: objectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		Data:       data,
		OccurredAt: event.OccurredAt,
	}, true
}

func (h Hook) accepts(verb string) bool {
	switch prefix := strings.TrimSpace(h.VerbPrefix); prefix {
	case "*":
		return true
	case "":
		return strings.HasPrefix(verb, DefaultVerbPrefix)
	default:
		return strings.HasPrefix(verb, strings.ToLower(prefix))
	}
}

func identity(id string) uuid.UUID {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil
	}
	return parsed
}
