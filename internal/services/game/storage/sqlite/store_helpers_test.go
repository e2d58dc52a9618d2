package sqlite

import (
	"testing"
	"time"
)

func TestMillisHelpers(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	value := time.Date(2026, 3, 1, 9, 0, 0, 0, loc)
	if toMillis(value) != value.UTC().UnixMilli() {
		t.Fatalf("expected millis to match UTC unix millis")
	}

	round := fromMillis(toMillis(value))
	if !round.Equal(value.UTC()) {
		t.Fatalf("expected round trip UTC time, got %v", round)
	}
}

func TestBoolHelpers(t *testing.T) {
	if boolToInt(true) != 1 || boolToInt(false) != 0 {
		t.Fatal("expected bool to int mapping")
	}
	if !intToBool(1) || intToBool(0) {
		t.Fatal("expected int to bool mapping")
	}
	if !intToBool(7) {
		t.Fatal("expected any non-zero value to read as true")
	}
}

func TestNullStringHelper(t *testing.T) {
	if got := toNullString("  "); got.Valid {
		t.Fatal("expected blank string to produce invalid NullString")
	}
	got := toNullString("value")
	if !got.Valid || got.String != "value" {
		t.Fatalf("expected valid NullString, got %+v", got)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  ", nil, nil); err == nil {
		t.Fatal("expected error for blank storage path")
	}
}

func TestCloseNilStore(t *testing.T) {
	var store *Store
	if err := store.Close(); err != nil {
		t.Fatalf("expected nil-safe close, got %v", err)
	}
	if err := (&Store{}).Close(); err != nil {
		t.Fatalf("expected close without db to succeed, got %v", err)
	}
}
