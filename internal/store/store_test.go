package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, found, err := s.Get(ctx, KeyClients)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatalf("expected missing key")
	}

	if err := s.Set(ctx, KeyClients, []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	payload, found, err := s.Get(ctx, KeyClients)
	if err != nil || !found {
		t.Fatalf("get after set: found=%v err=%v", found, err)
	}
	if string(payload) != `[{"id":"1"}]` {
		t.Errorf("unexpected payload %s", payload)
	}
}

func TestMemoryStoreLastWriteWins(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_ = s.Set(ctx, KeyGoals, []byte(`[1]`))
	_ = s.Set(ctx, KeyGoals, []byte(`[2]`))

	payload, _, _ := s.Get(ctx, KeyGoals)
	if string(payload) != `[2]` {
		t.Errorf("expected last write, got %s", payload)
	}
}

func TestMemoryStoreGetIsACopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Set(ctx, KeyProjects, []byte(`[]`))

	payload, _, _ := s.Get(ctx, KeyProjects)
	payload[0] = 'X'

	again, _, _ := s.Get(ctx, KeyProjects)
	if string(again) != `[]` {
		t.Errorf("stored payload was mutated through the returned slice")
	}
}

func TestNewMemoryStoreFromFiles(t *testing.T) {
	dir := t.TempDir()
	seed := `[{"id":"1","entreprise":"Acme"}]`
	if err := os.WriteFile(filepath.Join(dir, "clients.json"), []byte(seed), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewMemoryStoreFromFiles(dir)
	payload, found, err := s.Get(context.Background(), KeyClients)
	if err != nil || !found {
		t.Fatalf("seeded key missing: found=%v err=%v", found, err)
	}
	if string(payload) != seed {
		t.Errorf("unexpected seed payload %s", payload)
	}

	// unseeded keys stay absent
	_, found, _ = s.Get(context.Background(), KeyInvoices)
	if found {
		t.Errorf("factures should not be seeded")
	}
}
