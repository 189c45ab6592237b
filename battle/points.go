package battle

const (
	// StartingCoachingPoints is the per-battle coaching budget a team
	// begins with and resets to after a win.
	StartingCoachingPoints = 3
)

// DebitCoachingPoint spends one coaching point. Returns
// ErrInsufficientResource when the pool is empty; the balance never goes
// negative. Must run inside a serialized battle operation.
func (t *Team) DebitCoachingPoint() error {
	if t.CoachingPoints <= 0 {
		return ErrInsufficientResource
	}
	t.CoachingPoints--
	return nil
}

// SettleCoachingPoints applies the win/loss settlement to the coaching
// pool: a win restores the full budget and clears the losing streak, each
// consecutive loss shrinks the next battle's budget by one down to zero.
// Must run inside a serialized battle operation.
func (t *Team) SettleCoachingPoints(won bool) {
	if won {
		t.CoachingPoints = StartingCoachingPoints
		t.ConsecutiveLosses = 0
		return
	}
	t.ConsecutiveLosses++
	next := StartingCoachingPoints - t.ConsecutiveLosses
	if next < 0 {
		next = 0
	}
	t.CoachingPoints = next
}
