package activity

import (
	"sort"
	"strings"
	"time"
)

// Verbs emitted for destructive gnuplot entity changes.
const (
	VerbOptionsApplied  = "gnuplot.options.applied"
	VerbDatasetAdded    = "gnuplot.dataset.added"
	VerbDatasetRemoved  = "gnuplot.dataset.removed"
	VerbDatasetReplaced = "gnuplot.dataset.replaced"
	VerbDatasetUpdated  = "gnuplot.dataset.updated"
	VerbPlotAdded       = "gnuplot.plot.added"
	VerbPlotRemoved     = "gnuplot.plot.removed"
	VerbPlotReplaced    = "gnuplot.plot.replaced"
)

// EntityEventInput describes an in-place change to a plot, splot or
// multiplot.
type EntityEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	EntityType string
	EntityID   string
	// Position addresses the changed element. Nil for whole-entity changes.
	Position   *int
	Count      int
	Keys       []string
	Source     string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildOptionsAppliedEvent reports options merged into an entity in place.
func BuildOptionsAppliedEvent(input EntityEventInput) Event {
	return buildEntityEvent(VerbOptionsApplied, input.EntityType, input)
}

// BuildDatasetAddedEvent reports datasets inserted into a plot in place.
func BuildDatasetAddedEvent(input EntityEventInput) Event {
	return buildEntityEvent(VerbDatasetAdded, "dataset", input)
}

// BuildDatasetRemovedEvent reports a dataset removed from a plot in place.
func BuildDatasetRemovedEvent(input EntityEventInput) Event {
	return buildEntityEvent(VerbDatasetRemoved, "dataset", input)
}

// BuildDatasetReplacedEvent reports a dataset slot overwritten in place.
func BuildDatasetReplacedEvent(input EntityEventInput) Event {
	return buildEntityEvent(VerbDatasetReplaced, "dataset", input)
}

// BuildDatasetUpdatedEvent reports a dataset's data or options changed in
// place.
func BuildDatasetUpdatedEvent(input EntityEventInput) Event {
	return buildEntityEvent(VerbDatasetUpdated, "dataset", input)
}

// BuildPlotAddedEvent reports plots inserted into a multiplot in place.
func BuildPlotAddedEvent(input EntityEventInput) Event {
	return buildEntityEvent(VerbPlotAdded, "plot", input)
}

// BuildPlotRemovedEvent reports a plot removed from a multiplot in place.
func BuildPlotRemovedEvent(input EntityEventInput) Event {
	return buildEntityEvent(VerbPlotRemoved, "plot", input)
}

// BuildPlotReplacedEvent reports a multiplot slot overwritten in place.
func BuildPlotReplacedEvent(input EntityEventInput) Event {
	return buildEntityEvent(VerbPlotReplaced, "plot", input)
}

func buildEntityEvent(verb, objectType string, input EntityEventInput) Event {
	metadata := copyMetadata(input.Metadata)
	entityType := strings.TrimSpace(input.EntityType)
	if entityType != "" && entityType != objectType {
		metadata = ensureMetadata(metadata)
		metadata["entity_type"] = entityType
	}
	if input.Position != nil {
		metadata = ensureMetadata(metadata)
		metadata["position"] = *input.Position
	}
	if input.Count > 0 {
		metadata = ensureMetadata(metadata)
		metadata["count"] = input.Count
	}
	if len(input.Keys) > 0 {
		keys := append([]string{}, input.Keys...)
		sort.Strings(keys)
		metadata = ensureMetadata(metadata)
		metadata["keys"] = keys
	}
	if source := strings.TrimSpace(input.Source); source != "" {
		metadata = ensureMetadata(metadata)
		metadata["source"] = source
	}

	objectID := strings.TrimSpace(input.EntityID)
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
