package activity

import (
	"context"
	"testing"
	"time"
)

func TestBuildOptionsAppliedEventIncludesEntityMetadata(t *testing.T) {
	meta := map[string]any{"custom": "value"}
	input := EntityEventInput{
		ActorID:    " actor ",
		UserID:     " user ",
		TenantID:   " tenant ",
		Channel:    "gnuplot",
		EntityType: "plot",
		EntityID:   " plot-1 ",
		Keys:       []string{"xrange", "title"},
		Metadata:   meta,
	}

	event := BuildOptionsAppliedEvent(input)

	if event.Verb != VerbOptionsApplied {
		t.Fatalf("expected verb %s got %s", VerbOptionsApplied, event.Verb)
	}
	if event.ObjectType != "plot" || event.ObjectID != "plot-1" {
		t.Fatalf("unexpected object fields: %+v", event)
	}
	if event.ActorID != "actor" || event.UserID != "user" || event.TenantID != "tenant" {
		t.Fatalf("unexpected identity fields: %+v", event)
	}
	keys, ok := event.Metadata["keys"].([]string)
	if !ok || len(keys) != 2 || keys[0] != "title" || keys[1] != "xrange" {
		t.Fatalf("expected sorted keys, got %v", event.Metadata["keys"])
	}
	if _, ok := event.Metadata["entity_type"]; ok {
		t.Fatalf("entity_type should be omitted when it equals the object type")
	}
	if input.Keys[0] != "xrange" {
		t.Fatalf("input keys must not be reordered")
	}
	event.Metadata["custom"] = "changed"
	if meta["custom"] != "value" {
		t.Fatalf("expected metadata to be cloned")
	}
}

func TestBuildDatasetEventsCarryPosition(t *testing.T) {
	position := 2
	event := BuildDatasetUpdatedEvent(EntityEventInput{
		EntityType: "splot",
		EntityID:   "p-9",
		Position:   &position,
		Source:     "block",
	})

	if event.Verb != VerbDatasetUpdated || event.ObjectType != "dataset" || event.ObjectID != "p-9" {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Metadata["position"] != 2 || event.Metadata["source"] != "block" || event.Metadata["entity_type"] != "splot" {
		t.Fatalf("unexpected metadata: %+v", event.Metadata)
	}
}

func TestBuildEventFallsBackToObjectType(t *testing.T) {
	event := BuildPlotRemovedEvent(EntityEventInput{})
	if event.ObjectID != "plot" {
		t.Fatalf("expected fallback object id, got %q", event.ObjectID)
	}
	if event.Metadata != nil {
		t.Fatalf("expected no metadata, got %+v", event.Metadata)
	}
}

func TestBuildEntityEventsWorkWithHooks(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}
	when := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	events := []Event{
		BuildDatasetAddedEvent(EntityEventInput{EntityID: "p", Count: 2, OccurredAt: when}),
		BuildDatasetRemovedEvent(EntityEventInput{EntityID: "p", OccurredAt: when}),
		BuildDatasetReplacedEvent(EntityEventInput{EntityID: "p", OccurredAt: when}),
		BuildPlotAddedEvent(EntityEventInput{EntityID: "m", OccurredAt: when}),
		BuildPlotReplacedEvent(EntityEventInput{EntityID: "m", OccurredAt: when}),
	}
	for _, event := range events {
		if err := hooks.Notify(context.Background(), event); err != nil {
			t.Fatalf("notify: %v", err)
		}
	}
	if len(capture.Events) != len(events) {
		t.Fatalf("expected %d events, got %d", len(events), len(capture.Events))
	}
	if capture.Events[0].Metadata["count"] != 2 {
		t.Fatalf("expected count metadata, got %+v", capture.Events[0].Metadata)
	}
	if !capture.Events[0].OccurredAt.Equal(when) {
		t.Fatalf("expected timestamp preserved")
	}
}
