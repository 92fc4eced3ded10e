package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bf2799/pppl-league-app/internal/excel"
	"github.com/bf2799/pppl-league-app/internal/schedule"
	"github.com/bf2799/pppl-league-app/internal/strategy"
)

// Violation represents a fairness or consistency problem found during validation.
type Violation struct {
	Row     int
	Type    string // "error" or "warning"
	Message string
}

// Validate reads a schedule Excel file and checks it against the roster and
// games-per-player target.
func Validate(players []string, gamesPerPlayer int, path string) ([]Violation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	games, err := excel.ReadGames(f)
	if err != nil {
		return nil, fmt.Errorf("reading games: %w", err)
	}
	return Check(players, gamesPerPlayer, games), nil
}

// Check runs every rule against an in-memory schedule.
func Check(players []string, gamesPerPlayer int, games []strategy.Game) []Violation {
	var violations []Violation

	// Hard rules
	violations = append(violations, checkPairings(players, games)...)
	violations = append(violations, checkNumbering(games)...)

	// Names may differ from the roster in case only.
	games = strategy.MatchRoster(players, games)
	violations = append(violations, checkGamesPerPlayer(players, gamesPerPlayer, games)...)

	// Fairness guidelines
	violations = append(violations, checkHomeAwayBalance(players, games)...)
	violations = append(violations, checkMeetingBalance(players, games)...)

	return violations
}

// row is the sheet row of the i-th game; row 1 holds headers.
func row(i int) int { return i + 2 }

func checkPairings(players []string, games []strategy.Game) []Violation {
	roster := make(map[string]bool, len(players))
	for _, p := range players {
		roster[strings.ToLower(p)] = true
	}

	var violations []Violation
	for i, g := range games {
		if strings.EqualFold(g.Home, g.Away) {
			violations = append(violations, Violation{
				Row:     row(i),
				Type:    "error",
				Message: fmt.Sprintf("game %d pairs %s with themselves", g.Number, g.Home),
			})
		}
		for _, p := range []string{g.Home, g.Away} {
			if !roster[strings.ToLower(p)] {
				violations = append(violations, Violation{
					Row:     row(i),
					Type:    "error",
					Message: fmt.Sprintf("game %d has %q, who is not on the roster", g.Number, p),
				})
			}
		}
	}
	return violations
}

func checkNumbering(games []strategy.Game) []Violation {
	var violations []Violation
	for i, g := range games {
		if g.Number != i+1 {
			violations = append(violations, Violation{
				Row:     row(i),
				Type:    "error",
				Message: fmt.Sprintf("game numbered %d is in position %d", g.Number, i+1),
			})
		}
	}
	return violations
}

func checkGamesPerPlayer(players []string, gamesPerPlayer int, games []strategy.Game) []Violation {
	tallies := schedule.Tally(players, strategy.Pairings(games))

	var violations []Violation
	for _, p := range players {
		if n := tallies[p].Games; n < gamesPerPlayer {
			violations = append(violations, Violation{
				Type:    "error",
				Message: fmt.Sprintf("%s plays %d games (min %d)", p, n, gamesPerPlayer),
			})
		}
	}
	return violations
}

func checkHomeAwayBalance(players []string, games []strategy.Game) []Violation {
	tallies := schedule.Tally(players, strategy.Pairings(games))

	var violations []Violation
	for _, p := range players {
		t := tallies[p]
		diff := t.Home - t.Away
		if diff < -1 || diff > 1 {
			violations = append(violations, Violation{
				Type:    "warning",
				Message: fmt.Sprintf("%s home/away imbalance: %d home, %d away", p, t.Home, t.Away),
			})
		}
	}
	return violations
}

func checkMeetingBalance(players []string, games []strategy.Game) []Violation {
	pairings := strategy.Pairings(games)
	fewest, most := schedule.MeetingSpread(players, pairings)
	if most-fewest <= 1 {
		return nil
	}

	type matchup struct{ a, b string }
	counts := make(map[matchup]int)
	for _, g := range pairings {
		a, b := g.Home, g.Away
		if a > b {
			a, b = b, a
		}
		counts[matchup{a, b}]++
	}
	var heavy []string
	for mk, c := range counts {
		if c == most {
			heavy = append(heavy, fmt.Sprintf("%s vs %s", mk.a, mk.b))
		}
	}
	sort.Strings(heavy)

	return []Violation{{
		Type: "warning",
		Message: fmt.Sprintf("meeting imbalance: min %d, max %d between players (most: %s)",
			fewest, most, strings.Join(heavy, ", ")),
	}}
}
