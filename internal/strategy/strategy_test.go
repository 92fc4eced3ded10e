package strategy

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bf2799/pppl-league-app/internal/schedule"
)

func testPlayers() []string {
	return []string{"Ace", "Bert", "Cass", "Dot", "Eli"}
}

func TestGet(t *testing.T) {
	t.Run("default name", func(t *testing.T) {
		s, err := Get(DefaultName)
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if _, ok := s.(*FairRoundRobin); !ok {
			t.Errorf("Get(%q) = %T, want *FairRoundRobin", DefaultName, s)
		}
	})

	t.Run("empty name falls back to default", func(t *testing.T) {
		if _, err := Get(""); err != nil {
			t.Errorf("Get(\"\") error: %v", err)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		if _, err := Get("division_weighted"); err == nil {
			t.Error("expected error for unknown strategy")
		}
	})
}

func TestFairRoundRobinMatchups(t *testing.T) {
	s := &FairRoundRobin{}
	games, err := s.GenerateMatchups(testPlayers(), 4)
	if err != nil {
		t.Fatalf("GenerateMatchups() error: %v", err)
	}

	t.Run("each player reaches the target", func(t *testing.T) {
		counts := make(map[string]int)
		for _, g := range games {
			counts[g.Home]++
			counts[g.Away]++
		}
		for _, p := range testPlayers() {
			if counts[p] < 4 {
				t.Errorf("%s plays %d games, want at least 4", p, counts[p])
			}
		}
	})

	t.Run("games numbered in order", func(t *testing.T) {
		for i, g := range games {
			if g.Number != i+1 {
				t.Errorf("game %d has number %d", i+1, g.Number)
			}
		}
	})

	t.Run("each game has a unique label", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, g := range games {
			if g.Label == "" {
				t.Error("game has empty label")
			}
			if seen[g.Label] {
				t.Errorf("duplicate label: %s", g.Label)
			}
			seen[g.Label] = true
		}
	})

	t.Run("home/away roughly balanced", func(t *testing.T) {
		home := make(map[string]int)
		away := make(map[string]int)
		for _, g := range games {
			home[g.Home]++
			away[g.Away]++
		}
		for _, p := range testPlayers() {
			diff := home[p] - away[p]
			if diff < -2 || diff > 2 {
				t.Errorf("%s home/away imbalance: %d home, %d away", p, home[p], away[p])
			}
		}
	})

	t.Run("round trips through pairings", func(t *testing.T) {
		if diff := cmp.Diff(games, Number(Pairings(games))); diff != "" {
			t.Errorf("renumbered games differ (-want +got):\n%s", diff)
		}
	})
}

func TestFairRoundRobinErrors(t *testing.T) {
	s := &FairRoundRobin{}

	t.Run("too few players", func(t *testing.T) {
		_, err := s.GenerateMatchups([]string{"Solo"}, 2)
		if !errors.Is(err, schedule.ErrInvalidRoster) {
			t.Errorf("err = %v, want ErrInvalidRoster", err)
		}
	})

	t.Run("negative target", func(t *testing.T) {
		_, err := s.GenerateMatchups(testPlayers(), -2)
		if !errors.Is(err, schedule.ErrInvalidTarget) {
			t.Errorf("err = %v, want ErrInvalidTarget", err)
		}
	})
}

func TestMatchRoster(t *testing.T) {
	games := []Game{
		{Number: 1, Home: "ace", Away: "BERT", Label: "Game 1"},
		{Number: 2, Home: "Zed", Away: "Ace", Label: "Game 2"},
	}
	got := MatchRoster([]string{"Ace", "Bert"}, games)

	want := []Game{
		{Number: 1, Home: "Ace", Away: "Bert", Label: "Game 1"},
		{Number: 2, Home: "Zed", Away: "Ace", Label: "Game 2"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MatchRoster mismatch (-want +got):\n%s", diff)
	}
	if games[0].Home != "ace" {
		t.Errorf("input modified: %+v", games[0])
	}
}
