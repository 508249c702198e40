package state_test

import (
	"context"
	"testing"
	"time"

	gnuplot "github.com/goliatone/go-gnuplot"
	"github.com/goliatone/go-gnuplot/pkg/state"
	"github.com/google/go-cmp/cmp"
)

func TestRefIdentifier(t *testing.T) {
	cases := []struct {
		name    string
		ref     state.Ref
		want    string
		wantErr bool
	}{
		{name: "system", ref: state.Ref{Domain: "plot", Scope: state.System()}, want: "system/plot"},
		{name: "project", ref: state.Ref{Domain: "plot", Scope: state.Project("sales")}, want: "project/sales/plot"},
		{name: "user", ref: state.Ref{Domain: "splot", Scope: state.User("u42")}, want: "user/u42/splot"},
		{name: "user without id", ref: state.Ref{Domain: "plot", Scope: state.Scope{Name: state.ScopeUser}}, wantErr: true},
		{name: "unknown scope", ref: state.Ref{Domain: "plot", Scope: state.Scope{Name: "team", ID: "t"}}, wantErr: true},
		{name: "missing domain", ref: state.Ref{Scope: state.System()}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.ref.Identifier()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("identifier: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestMemoryStoreSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore[gnuplot.Store]()
	ref := state.Ref{Domain: "plot", Scope: state.User("u42")}

	if _, _, ok, err := store.Load(ctx, ref); err != nil || ok {
		t.Fatalf("expected empty store, ok=%t err=%v", ok, err)
	}

	extra := map[string]string{"source": "test"}
	meta, err := store.Save(ctx, ref, gnuplot.NewStore(gnuplot.KV("grid", true)), state.Meta{SnapshotID: "s1", Extra: extra})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	extra["source"] = "changed"
	if meta.Extra["source"] != "test" {
		t.Fatalf("expected meta to be copied, got %v", meta.Extra)
	}

	snapshot, loaded, ok, err := store.Load(ctx, ref)
	if err != nil || !ok {
		t.Fatalf("load: ok=%t err=%v", ok, err)
	}
	if !snapshot.Has("grid") || loaded.SnapshotID != "s1" || loaded.Extra["source"] != "test" {
		t.Fatalf("unexpected record %v %+v", snapshot, loaded)
	}
}

func TestMemoryStoreRejectsInvalidRef(t *testing.T) {
	store := state.NewMemoryStore[gnuplot.Store]()
	if _, err := store.Save(context.Background(), state.Ref{Domain: "plot", Scope: state.User("")}, gnuplot.Store{}, state.Meta{}); err == nil {
		t.Fatalf("expected invalid ref to be rejected")
	}
}

func TestMemoryStoreStampsAndDeletes(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store := state.NewMemoryStore[gnuplot.Store]()
	store.Now = func() time.Time { return at }

	system := state.Ref{Domain: "plot", Scope: state.System()}
	user := state.Ref{Domain: "plot", Scope: state.User("u42")}
	other := state.Ref{Domain: "splot", Scope: state.System()}
	for _, ref := range []state.Ref{user, system, other} {
		meta, err := store.Save(ctx, ref, gnuplot.NewStore(gnuplot.KV("grid", true)), state.Meta{})
		if err != nil {
			t.Fatalf("save %v: %v", ref, err)
		}
		if meta.SnapshotID == "" || !meta.UpdatedAt.Equal(at) {
			t.Fatalf("meta not stamped: %+v", meta)
		}
	}

	if diff := cmp.Diff([]state.Scope{state.System(), state.User("u42")}, store.Scopes("plot")); diff != "" {
		t.Fatalf("scopes mismatch (-want +got):\n%s", diff)
	}

	deleted, err := store.Delete(ctx, user)
	if err != nil || !deleted {
		t.Fatalf("delete: deleted=%t err=%v", deleted, err)
	}
	if deleted, _ := store.Delete(ctx, user); deleted {
		t.Fatalf("second delete reported a record")
	}
	if _, _, ok, _ := store.Load(ctx, user); ok {
		t.Fatalf("deleted record still loads")
	}
}
