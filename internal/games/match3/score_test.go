package match3

import "testing"

func TestScoreKeeper(t *testing.T) {
	var s ScoreKeeper

	s.AddScore(300)
	s.OnMatchResolved(400)

	if s.Total() != 700 {
		t.Errorf("Total() = %d, want 700", s.Total())
	}
	if s.Last() != 400 {
		t.Errorf("Last() = %d, want 400", s.Last())
	}
	if s.Rounds() != 2 {
		t.Errorf("Rounds() = %d, want 2", s.Rounds())
	}

	s.Reset()
	if s.Total() != 0 || s.Rounds() != 0 {
		t.Errorf("after Reset Total() = %d Rounds() = %d, want 0 0", s.Total(), s.Rounds())
	}
}
