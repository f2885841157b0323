package dex

import (
	"testing"

	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
)

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()

	if !r.Register(domain.CaughtRecord{ID: 25, Name: "pikachu"}) {
		t.Fatal("expected first register to insert")
	}
	if r.Len() != 1 {
		t.Fatalf("expected length 1, got %d", r.Len())
	}

	if r.Register(domain.CaughtRecord{ID: 25, Name: "pikachu"}) {
		t.Fatal("expected duplicate register to be a no-op")
	}
	if r.Len() != 1 {
		t.Fatalf("expected length to stay 1 after duplicate, got %d", r.Len())
	}
}

func TestRegistryInsertionOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(domain.CaughtRecord{ID: 143, Name: "snorlax"})
	r.Register(domain.CaughtRecord{ID: 1, Name: "bulbasaur"})
	r.Register(domain.CaughtRecord{ID: 25, Name: "pikachu"})

	// Re-registering must not move the record.
	r.Register(domain.CaughtRecord{ID: 1, Name: "bulbasaur"})

	got := r.Records()
	wantIDs := []int{143, 1, 25}
	if len(got) != len(wantIDs) {
		t.Fatalf("expected %d records, got %d", len(wantIDs), len(got))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Fatalf("position %d: expected id %d, got %d", i, id, got[i].ID)
		}
	}
}

func TestRegistryRecordsIsCopy(t *testing.T) {
	r := NewRegistry()
	r.Register(domain.CaughtRecord{ID: 7, Name: "squirtle"})

	snapshot := r.Records()
	snapshot[0].Name = "mutated"

	if r.Records()[0].Name != "squirtle" {
		t.Fatal("expected Records to return a defensive copy")
	}
}

func TestRegistryContains(t *testing.T) {
	r := NewRegistry()
	r.Register(domain.CaughtRecord{ID: 4, Name: "charmander"})

	if !r.Contains(4) {
		t.Fatal("expected Contains(4) to be true")
	}
	if r.Contains(5) {
		t.Fatal("expected Contains(5) to be false")
	}
}

func TestRegistryFromRecordsDedupes(t *testing.T) {
	records := []domain.CaughtRecord{
		{ID: 1, Name: "bulbasaur"},
		{ID: 2, Name: "ivysaur"},
		{ID: 1, Name: "bulbasaur-again"},
		{ID: 3, Name: "venusaur"},
	}

	r := RegistryFromRecords(records)

	if r.Len() != 3 {
		t.Fatalf("expected 3 unique records, got %d", r.Len())
	}
	got := r.Records()
	if got[0].Name != "bulbasaur" {
		t.Fatalf("expected first occurrence kept, got %q", got[0].Name)
	}
	if got[1].ID != 2 || got[2].ID != 3 {
		t.Fatalf("expected order 1,2,3 got %d,%d,%d", got[0].ID, got[1].ID, got[2].ID)
	}
}
