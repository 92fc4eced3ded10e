package strategy

import (
	"fmt"
	"strings"

	"github.com/bf2799/pppl-league-app/internal/schedule"
)

// DefaultName is the strategy used when the config does not name one.
const DefaultName = "fair_round_robin"

// Game represents a single numbered matchup between two players.
type Game struct {
	Number int // 1-based position in the season
	Home   string
	Away   string
	Label  string // unique identifier like "Game 1"
}

// Strategy generates the ordered list of matchups for a season.
type Strategy interface {
	GenerateMatchups(players []string, gamesPerPlayer int) ([]Game, error)
}

// Get returns a Strategy by name.
func Get(name string) (Strategy, error) {
	switch name {
	case DefaultName, "":
		return &FairRoundRobin{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy: %q", name)
	}
}

// FairRoundRobin keeps meetings, home/away sides, and rest between games
// as even as possible. Every player gets at least gamesPerPlayer games.
type FairRoundRobin struct{}

func (s *FairRoundRobin) GenerateMatchups(players []string, gamesPerPlayer int) ([]Game, error) {
	pairings, err := schedule.Generate(players, gamesPerPlayer)
	if err != nil {
		return nil, fmt.Errorf("generating matchups: %w", err)
	}
	return Number(pairings), nil
}

// Number turns ordered pairings into games numbered from 1.
func Number(pairings []schedule.Pairing[string]) []Game {
	games := make([]Game, 0, len(pairings))
	for i, p := range pairings {
		games = append(games, Game{
			Number: i + 1,
			Home:   p.Home,
			Away:   p.Away,
			Label:  fmt.Sprintf("Game %d", i+1),
		})
	}
	return games
}

// Pairings strips numbering from games.
func Pairings(games []Game) []schedule.Pairing[string] {
	pairings := make([]schedule.Pairing[string], len(games))
	for i, g := range games {
		pairings[i] = schedule.Pairing[string]{Home: g.Home, Away: g.Away}
	}
	return pairings
}

// MatchRoster returns a copy of games with each player name replaced by its
// roster spelling, matching case-insensitively. Names not on the roster are
// left as they are.
func MatchRoster(players []string, games []Game) []Game {
	spelling := make(map[string]string, len(players))
	for _, p := range players {
		spelling[strings.ToLower(p)] = p
	}
	canon := func(name string) string {
		if p, ok := spelling[strings.ToLower(name)]; ok {
			return p
		}
		return name
	}

	matched := make([]Game, len(games))
	for i, g := range games {
		g.Home = canon(g.Home)
		g.Away = canon(g.Away)
		matched[i] = g
	}
	return matched
}
