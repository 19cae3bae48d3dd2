package match3

// ScoreKeeper accumulates the point increments reported by the engine into
// a running total.
type ScoreKeeper struct {
	total  int
	last   int
	rounds int
}

// AddScore adds points to the total.
func (s *ScoreKeeper) AddScore(points int) {
	s.total += points
	s.last = points
	s.rounds++
}

// OnMatchResolved lets a ScoreKeeper serve directly as the engine's score listener.
func (s *ScoreKeeper) OnMatchResolved(points int) {
	s.AddScore(points)
}

// Reset sets the total back to zero.
func (s *ScoreKeeper) Reset() {
	*s = ScoreKeeper{}
}

// Total returns the running total.
func (s *ScoreKeeper) Total() int { return s.total }

// Last returns the most recent increment.
func (s *ScoreKeeper) Last() int { return s.last }

// Rounds returns how many increments have been added.
func (s *ScoreKeeper) Rounds() int { return s.rounds }
