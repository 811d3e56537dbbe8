package chat

import (
	"fmt"
	"slices"
	"testing"
	"time"
)

func TestKeyFor(t *testing.T) {
	tests := []struct {
		a, b UserID
		want Key
	}{
		{3, 7, "3-7"},
		{7, 3, "3-7"},
		{10, 9, "9-10"},
		{2, 100, "2-100"},
	}
	for _, tt := range tests {
		if got := KeyFor(tt.a, tt.b); got != tt.want {
			t.Errorf("KeyFor(%d, %d) = %q, want %q", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Key
		wantErr bool
	}{
		{"canonical", "3-7", "3-7", false},
		{"reversed", "7-3", "3-7", false},
		{"numeric not lexical", "10-9", "9-10", false},
		{"empty", "", "", true},
		{"no separator", "37", "", true},
		{"same user", "3-3", "", true},
		{"zero", "0-3", "", true},
		{"negative", "-1-3", "", true},
		{"letters", "a-b", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestKeyOther(t *testing.T) {
	k := KeyFor(3, 7)
	if got := k.Other(3); got != 7 {
		t.Errorf("Other(3) = %d, want 7", got)
	}
	if got := k.Other(7); got != 3 {
		t.Errorf("Other(7) = %d, want 3", got)
	}
	if got := k.Other(5); got != 0 {
		t.Errorf("Other(5) = %d, want 0 for non-participant", got)
	}
	if !k.Has(3) || k.Has(5) {
		t.Error("Has() disagrees with participants")
	}
}

func TestPositionOrdersByTimeThenID(t *testing.T) {
	t0 := time.UnixMilli(1000)
	tests := []struct {
		a, b Position
		want int
	}{
		{Position{t0, "5"}, Position{t0.Add(time.Millisecond), "1"}, -1},
		{Position{t0, "9"}, Position{t0, "10"}, -1},
		{Position{t0, "42"}, Position{t0, "42"}, 0},
		{Position{t0, "tmp-b"}, Position{t0, "tmp-a"}, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v_vs_%v", tt.a.ID, tt.b.ID), func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("Compare = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCompareIDsIsTransitive(t *testing.T) {
	ids := []string{"9", "10", "1a", "007", "7", "tmp-a", "tmp-b", "100", "\uffff"}
	for _, a := range ids {
		for _, b := range ids {
			if CompareIDs(a, b) != -CompareIDs(b, a) {
				t.Errorf("CompareIDs(%q, %q) is not antisymmetric", a, b)
			}
			for _, c := range ids {
				if CompareIDs(a, b) < 0 && CompareIDs(b, c) < 0 && CompareIDs(a, c) >= 0 {
					t.Errorf("%q < %q < %q but CompareIDs(%q, %q) = %d", a, b, c, a, c, CompareIDs(a, c))
				}
			}
		}
	}

	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, CompareIDs)
	want := []string{"007", "7", "9", "10", "100", "1a", "tmp-a", "tmp-b", "\uffff"}
	if !slices.Equal(sorted, want) {
		t.Errorf("sorted = %q, want %q", sorted, want)
	}
}

func TestDeliveryStateRoundTrip(t *testing.T) {
	for _, s := range []DeliveryState{Pending, Confirmed, Failed} {
		got, err := ParseDeliveryState(s.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != s {
			t.Errorf("ParseDeliveryState(%q) = %v", s.String(), got)
		}
	}
	if _, err := ParseDeliveryState("sending"); err == nil {
		t.Error("expected error for unknown state")
	}
}

func TestErrorClassification(t *testing.T) {
	wrapped := fmt.Errorf("fetch: %w", &TransientNetworkError{Op: "list", Err: fmt.Errorf("reset")})
	if !IsTransient(wrapped) {
		t.Error("IsTransient should see through wrapping")
	}
	if IsAuth(wrapped) {
		t.Error("transient error classified as auth")
	}
	if !IsAuth(fmt.Errorf("connect: %w", ErrNoIdentity)) {
		t.Error("IsAuth should see through wrapping")
	}
	if !IsValidation(&ValidationError{Field: "body", Reason: "empty"}) {
		t.Error("IsValidation failed")
	}
	if !IsConflict(&ConflictError{ID: "42"}) {
		t.Error("IsConflict failed")
	}
}
