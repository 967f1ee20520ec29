package session

import (
	"testing"
	"time"
)

func TestCreateAndLookup(t *testing.T) {
	store := NewStore(time.Hour)
	defer store.Stop()

	sess := store.Create()
	if sess.ID() == "" {
		t.Fatal("expected non-empty session id")
	}

	got, ok := store.Lookup(sess.ID())
	if !ok || got != sess {
		t.Fatal("expected to find the created session")
	}

	if _, ok := store.Lookup("unknown"); ok {
		t.Fatal("expected lookup miss for unknown id")
	}
}

func TestValues(t *testing.T) {
	store := NewStore(time.Hour)
	defer store.Stop()

	sess := store.Create()
	if _, ok := sess.Get(IdentityTokenKey); ok {
		t.Fatal("new session should have no identity token")
	}

	sess.Set(IdentityTokenKey, "tok")
	if v, ok := sess.Get(IdentityTokenKey); !ok || v != "tok" {
		t.Fatalf("expected tok, got %q (ok=%v)", v, ok)
	}

	sess.Unset(IdentityTokenKey)
	if _, ok := sess.Get(IdentityTokenKey); ok {
		t.Fatal("expected token to be unset")
	}
}

func TestDelete(t *testing.T) {
	store := NewStore(time.Hour)
	defer store.Stop()

	sess := store.Create()
	store.Delete(sess.ID())

	if _, ok := store.Lookup(sess.ID()); ok {
		t.Fatal("expected session to be gone after delete")
	}
}

func TestSweepRemovesIdleSessions(t *testing.T) {
	store := NewStore(10 * time.Millisecond)
	defer store.Stop()

	idle := store.Create()
	time.Sleep(25 * time.Millisecond)

	fresh := store.Create()
	store.sweep()

	if _, ok := store.Lookup(idle.ID()); ok {
		t.Fatal("expected idle session to be swept")
	}
	if _, ok := store.Lookup(fresh.ID()); !ok {
		t.Fatal("expected fresh session to survive the sweep")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", store.Len())
	}
}
