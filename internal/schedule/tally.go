package schedule

// PlayerTally holds per-player schedule statistics.
type PlayerTally struct {
	Games int
	Home  int
	Away  int
}

// Tally counts games per player. Every roster player gets an entry, even
// with no games; players missing from the roster are counted too.
func Tally[P comparable](players []P, games []Pairing[P]) map[P]*PlayerTally {
	tallies := make(map[P]*PlayerTally, len(players))
	for _, p := range players {
		tallies[p] = &PlayerTally{}
	}
	get := func(p P) *PlayerTally {
		t, ok := tallies[p]
		if !ok {
			t = &PlayerTally{}
			tallies[p] = t
		}
		return t
	}
	for _, g := range games {
		home := get(g.Home)
		home.Games++
		home.Home++
		away := get(g.Away)
		away.Games++
		away.Away++
	}
	return tallies
}

// MeetingSpread returns the fewest and most times any two roster players
// have met, counting both directions together.
func MeetingSpread[P comparable](players []P, games []Pairing[P]) (fewest, most int) {
	if len(players) < 2 {
		return 0, 0
	}
	type pair struct{ a, b int }
	index := make(map[P]int, len(players))
	for i, p := range players {
		index[p] = i
	}
	counts := make(map[pair]int)
	for _, g := range games {
		a, aok := index[g.Home]
		b, bok := index[g.Away]
		if !aok || !bok || a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		counts[pair{a, b}]++
	}
	fewest = -1
	for a := 0; a < len(players); a++ {
		for b := a + 1; b < len(players); b++ {
			c := counts[pair{a, b}]
			if fewest < 0 || c < fewest {
				fewest = c
			}
			most = max(most, c)
		}
	}
	return fewest, most
}
