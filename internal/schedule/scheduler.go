package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRoster is returned when the roster has fewer than two
	// distinct players.
	ErrInvalidRoster = errors.New("invalid roster")
	// ErrInvalidTarget is returned when the games-per-player target is negative.
	ErrInvalidTarget = errors.New("invalid target")
)

// Pairing is a directed home/away matchup.
type Pairing[P comparable] struct {
	Home P
	Away P
}

// Reverse returns the same matchup with sides swapped.
func (p Pairing[P]) Reverse() Pairing[P] {
	return Pairing[P]{Home: p.Away, Away: p.Home}
}

// Generate builds an ordered schedule in which every player appears in at
// least minGamesPerPlayer games. Each pick runs the candidate pairings
// through a fixed chain of fairness filters and stops at the first filter
// that leaves a single candidate. Ties that survive every filter go to the
// earliest candidate in roster order.
//
// Some players may finish with more games than the target.
func Generate[P comparable](players []P, minGamesPerPlayer int) ([]Pairing[P], error) {
	if err := validateRoster(players); err != nil {
		return nil, err
	}
	if minGamesPerPlayer < 0 {
		return nil, fmt.Errorf("%w: games per player must not be negative, got %d", ErrInvalidTarget, minGamesPerPlayer)
	}
	if minGamesPerPlayer == 0 {
		return []Pairing[P]{}, nil
	}

	r := newRun(players)
	for r.fewestGames() < minGamesPerPlayer {
		r.commit(r.choose())
	}
	return r.schedule, nil
}

func validateRoster[P comparable](players []P) error {
	if len(players) < 2 {
		return fmt.Errorf("%w: need at least 2 players, got %d", ErrInvalidRoster, len(players))
	}
	seen := make(map[P]bool, len(players))
	for _, p := range players {
		if seen[p] {
			return fmt.Errorf("%w: player %v listed more than once", ErrInvalidRoster, p)
		}
		seen[p] = true
	}
	return nil
}

// run holds the state of a single Generate call.
type run[P comparable] struct {
	players    []P
	candidates []Pairing[P]

	schedule []Pairing[P]
	meetings map[Pairing[P]]int // directed pairing -> times scheduled
	games    map[P]int          // player -> games scheduled
}

func newRun[P comparable](players []P) *run[P] {
	n := len(players)
	candidates := make([]Pairing[P], 0, n*(n-1))
	for _, home := range players {
		for _, away := range players {
			if home != away {
				candidates = append(candidates, Pairing[P]{Home: home, Away: away})
			}
		}
	}
	return &run[P]{
		players:    players,
		candidates: candidates,
		meetings:   make(map[Pairing[P]]int, len(candidates)),
		games:      make(map[P]int, n),
	}
}

func (r *run[P]) fewestGames() int {
	fewest := r.games[r.players[0]]
	for _, p := range r.players[1:] {
		if g := r.games[p]; g < fewest {
			fewest = g
		}
	}
	return fewest
}

func (r *run[P]) commit(p Pairing[P]) {
	r.schedule = append(r.schedule, p)
	r.meetings[p]++
	r.games[p.Home]++
	r.games[p.Away]++
}

// choose narrows the candidate pool filter by filter. Filtering keeps
// construction order, so pool[0] is the fallback pick.
func (r *run[P]) choose() Pairing[P] {
	t := &tiebreak[P]{run: r}
	filters := []func([]Pairing[P]) []Pairing[P]{
		t.fewestMeetings,
		t.fewestSideMeetings,
		t.fewestGamesPlayed,
		t.stalestRoleWorst,
		t.stalestRoleBest,
		t.stalestPlayerWorst,
		t.stalestPlayerBest,
		t.stalestMeeting,
	}

	pool := r.candidates
	for _, filter := range filters {
		pool = filter(pool)
		if len(pool) == 1 {
			break
		}
	}
	return pool[0]
}

// tiebreak evaluates the filters for one pick. Recency tables are built on
// first use since most picks are decided by the count filters.
type tiebreak[P comparable] struct {
	run *run[P]

	asHome, asAway map[P]int // player -> games since last in that role
	played         map[P]int // player -> games since last in any role
}

func (t *tiebreak[P]) fewestMeetings(pool []Pairing[P]) []Pairing[P] {
	m := t.run.meetings
	return keepMin(pool, func(c Pairing[P]) int { return m[c] + m[c.Reverse()] })
}

func (t *tiebreak[P]) fewestSideMeetings(pool []Pairing[P]) []Pairing[P] {
	m := t.run.meetings
	return keepMin(pool, func(c Pairing[P]) int { return m[c] })
}

func (t *tiebreak[P]) fewestGamesPlayed(pool []Pairing[P]) []Pairing[P] {
	g := t.run.games
	return keepMin(pool, func(c Pairing[P]) int { return g[c.Home] + g[c.Away] })
}

func (t *tiebreak[P]) stalestRoleWorst(pool []Pairing[P]) []Pairing[P] {
	t.scanRoles()
	return keepStalest(pool, func(c Pairing[P]) Recency {
		return MaxRecency(lookup(t.asHome, c.Home), lookup(t.asAway, c.Away))
	})
}

func (t *tiebreak[P]) stalestRoleBest(pool []Pairing[P]) []Pairing[P] {
	t.scanRoles()
	return keepStalest(pool, func(c Pairing[P]) Recency {
		return MinRecency(lookup(t.asHome, c.Home), lookup(t.asAway, c.Away))
	})
}

func (t *tiebreak[P]) stalestPlayerWorst(pool []Pairing[P]) []Pairing[P] {
	t.scanPlayed()
	return keepStalest(pool, func(c Pairing[P]) Recency {
		return MaxRecency(lookup(t.played, c.Home), lookup(t.played, c.Away))
	})
}

func (t *tiebreak[P]) stalestPlayerBest(pool []Pairing[P]) []Pairing[P] {
	t.scanPlayed()
	return keepStalest(pool, func(c Pairing[P]) Recency {
		return MinRecency(lookup(t.played, c.Home), lookup(t.played, c.Away))
	})
}

func (t *tiebreak[P]) stalestMeeting(pool []Pairing[P]) []Pairing[P] {
	return keepStalest(pool, t.run.lastMeeting)
}

// scanRoles walks the schedule from the most recent game back, recording how
// many games ago each player was last home and last away.
func (t *tiebreak[P]) scanRoles() {
	if t.asHome != nil {
		return
	}
	n := len(t.run.players)
	s := t.run.schedule
	t.asHome = make(map[P]int, n)
	t.asAway = make(map[P]int, n)
	for i := len(s) - 1; i >= 0; i-- {
		if len(t.asHome) == n && len(t.asAway) == n {
			break
		}
		ago := len(s) - i
		if _, ok := t.asHome[s[i].Home]; !ok {
			t.asHome[s[i].Home] = ago
		}
		if _, ok := t.asAway[s[i].Away]; !ok {
			t.asAway[s[i].Away] = ago
		}
	}
}

func (t *tiebreak[P]) scanPlayed() {
	if t.played != nil {
		return
	}
	n := len(t.run.players)
	s := t.run.schedule
	t.played = make(map[P]int, n)
	for i := len(s) - 1; i >= 0 && len(t.played) < n; i-- {
		ago := len(s) - i
		for _, p := range [2]P{s[i].Home, s[i].Away} {
			if _, ok := t.played[p]; !ok {
				t.played[p] = ago
			}
		}
	}
}

// lastMeeting reports how many games ago the two sides of c last met in
// either direction.
func (r *run[P]) lastMeeting(c Pairing[P]) Recency {
	rev := c.Reverse()
	for i := len(r.schedule) - 1; i >= 0; i-- {
		if g := r.schedule[i]; g == c || g == rev {
			return KnownRecency(len(r.schedule) - i)
		}
	}
	return UnknownRecency()
}

func lookup[P comparable](m map[P]int, p P) Recency {
	if ago, ok := m[p]; ok {
		return KnownRecency(ago)
	}
	return UnknownRecency()
}

func keepMin[P comparable](pool []Pairing[P], metric func(Pairing[P]) int) []Pairing[P] {
	values := make([]int, len(pool))
	for i, c := range pool {
		values[i] = metric(c)
	}
	best := values[0]
	for _, v := range values[1:] {
		best = min(best, v)
	}
	var kept []Pairing[P]
	for i, c := range pool {
		if values[i] == best {
			kept = append(kept, c)
		}
	}
	return kept
}

// keepStalest keeps the candidates with the greatest recency. Unknown sorts
// above every known distance, so never-seen candidates win outright.
func keepStalest[P comparable](pool []Pairing[P], metric func(Pairing[P]) Recency) []Pairing[P] {
	values := make([]Recency, len(pool))
	for i, c := range pool {
		values[i] = metric(c)
	}
	best := values[0]
	for _, v := range values[1:] {
		best = MaxRecency(best, v)
	}
	var kept []Pairing[P]
	for i, c := range pool {
		if values[i] == best {
			kept = append(kept, c)
		}
	}
	return kept
}
