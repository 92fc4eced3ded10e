package schedule

import "testing"

func TestRecencyOrdering(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Recency
		wantLess bool
	}{
		{"closer is less", KnownRecency(1), KnownRecency(4), true},
		{"farther is not less", KnownRecency(4), KnownRecency(1), false},
		{"equal is not less", KnownRecency(2), KnownRecency(2), false},
		{"known below unknown", KnownRecency(100), UnknownRecency(), true},
		{"unknown not below known", UnknownRecency(), KnownRecency(100), false},
		{"unknown not below unknown", UnknownRecency(), UnknownRecency(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Less(tt.b); got != tt.wantLess {
				t.Errorf("%s.Less(%s) = %v, want %v", tt.a, tt.b, got, tt.wantLess)
			}
		})
	}

	t.Run("max prefers unknown", func(t *testing.T) {
		if got := MaxRecency(KnownRecency(9), UnknownRecency()); got != UnknownRecency() {
			t.Errorf("MaxRecency = %s, want unknown", got)
		}
	})

	t.Run("min prefers known", func(t *testing.T) {
		if got := MinRecency(UnknownRecency(), KnownRecency(9)); got != KnownRecency(9) {
			t.Errorf("MinRecency = %s, want 9 ago", got)
		}
	})

	t.Run("string form", func(t *testing.T) {
		if got := KnownRecency(5).String(); got != "5 ago" {
			t.Errorf("String() = %q, want %q", got, "5 ago")
		}
		if got := UnknownRecency().String(); got != "unknown" {
			t.Errorf("String() = %q, want %q", got, "unknown")
		}
	})
}

func TestTally(t *testing.T) {
	players := []string{"A", "B", "C"}
	games := []Pairing[string]{pair("A", "B"), pair("B", "A"), pair("A", "X")}
	tallies := Tally(players, games)

	t.Run("roster players counted", func(t *testing.T) {
		if got := *tallies["A"]; got != (PlayerTally{Games: 3, Home: 2, Away: 1}) {
			t.Errorf("A = %+v", got)
		}
		if got := *tallies["B"]; got != (PlayerTally{Games: 2, Home: 1, Away: 1}) {
			t.Errorf("B = %+v", got)
		}
	})

	t.Run("idle player present", func(t *testing.T) {
		if got, ok := tallies["C"]; !ok || got.Games != 0 {
			t.Errorf("C = %+v, %v; want zero tally", got, ok)
		}
	})

	t.Run("unknown player counted", func(t *testing.T) {
		if got, ok := tallies["X"]; !ok || got.Away != 1 {
			t.Errorf("X = %+v, %v; want one away game", got, ok)
		}
	})
}

func TestMeetingSpread(t *testing.T) {
	players := []string{"A", "B", "C"}

	t.Run("no games", func(t *testing.T) {
		fewest, most := MeetingSpread(players, nil)
		if fewest != 0 || most != 0 {
			t.Errorf("spread = %d..%d, want 0..0", fewest, most)
		}
	})

	t.Run("both directions count", func(t *testing.T) {
		games := []Pairing[string]{pair("A", "B"), pair("B", "A"), pair("A", "C")}
		fewest, most := MeetingSpread(players, games)
		if fewest != 0 || most != 2 {
			t.Errorf("spread = %d..%d, want 0..2", fewest, most)
		}
	})
}
