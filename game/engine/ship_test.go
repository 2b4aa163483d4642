package engine

import (
	"errors"
	"testing"
)

func TestNewShip(t *testing.T) {
	for length := MinShipLength; length <= MaxShipLength; length++ {
		ship, err := NewShip(length)
		if err != nil {
			t.Fatalf("NewShip(%d) returned error: %v", length, err)
		}
		if ship.Length() != length {
			t.Errorf("Expected length %d, got %d", length, ship.Length())
		}
		if ship.Hits() != 0 {
			t.Errorf("Expected 0 hits on a new ship, got %d", ship.Hits())
		}
		if ship.IsDestroyed() {
			t.Errorf("New ship of length %d should not be destroyed", length)
		}
	}
}

func TestNewShip_InvalidLength(t *testing.T) {
	tests := []int{-3, 0, 1, 6, 10}

	for _, length := range tests {
		ship, err := NewShip(length)
		if err == nil {
			t.Errorf("NewShip(%d) expected error, got ship %+v", length, ship)
			continue
		}
		if !errors.Is(err, ErrInvalidLength) {
			t.Errorf("NewShip(%d) error should match ErrInvalidLength, got %v", length, err)
		}
		var lengthErr *InvalidLengthError
		if !errors.As(err, &lengthErr) || lengthErr.Length != length {
			t.Errorf("NewShip(%d) expected *InvalidLengthError carrying the length, got %v", length, err)
		}
	}
}

func TestShip_RegisterHit(t *testing.T) {
	ship, err := NewShip(3)
	if err != nil {
		t.Fatalf("NewShip failed: %v", err)
	}

	ship.RegisterHit()
	ship.RegisterHit()
	if ship.Hits() != 2 {
		t.Errorf("Expected 2 hits, got %d", ship.Hits())
	}
	if ship.IsDestroyed() {
		t.Error("Ship with 2 of 3 hits should not be destroyed")
	}

	ship.RegisterHit()
	if !ship.IsDestroyed() {
		t.Error("Ship with 3 of 3 hits should be destroyed")
	}

	// overkill is ignored
	ship.RegisterHit()
	ship.RegisterHit()
	if ship.Hits() != 3 {
		t.Errorf("Hits should stop at length 3, got %d", ship.Hits())
	}
	if !ship.IsDestroyed() {
		t.Error("Ship should stay destroyed after extra hits")
	}
}
