package psyche

// StabilityInputs is the per-turn battle context from which stability
// contributions are derived.
type StabilityInputs struct {
	RecentWins          int
	RecentLosses        int
	TeamPerformance     int // 0..100
	StrategySuccessRate int // 0..100
	HealthRatio         float64
	OpponentLevelGap    int // opponent level minus own level, floored at 0 upstream
}

// StabilityFactors is a transient bundle of positive and negative
// contributions to mental stability. Recomputed every turn from the live
// battle context, never stored.
type StabilityFactors struct {
	RecentVictories   int
	GoodTeamwork      int
	StrategicSuccess  int
	OptimalHealth     int
	RecentDefeats     int
	TeamConflicts     int
	StrategicFailures int
	LowHealth         int
	OverwhelmingOdds  int
}

// ComputeStabilityFactors derives the contribution bundle for one turn.
func ComputeStabilityFactors(in StabilityInputs) StabilityFactors {
	healthPct := int(in.HealthRatio * 100)
	return StabilityFactors{
		RecentVictories:   maxInt(0, in.RecentWins*20-in.RecentLosses*10),
		GoodTeamwork:      in.TeamPerformance,
		StrategicSuccess:  in.StrategySuccessRate,
		OptimalHealth:     maxInt(0, healthPct-50) * 2,
		RecentDefeats:     maxInt(0, in.RecentLosses*25-in.RecentWins*5),
		TeamConflicts:     maxInt(0, 50-in.TeamPerformance),
		StrategicFailures: maxInt(0, 75-in.StrategySuccessRate),
		LowHealth:         maxInt(0, 75-healthPct),
		OverwhelmingOdds:  maxInt(0, in.OpponentLevelGap*15),
	}
}

// Delta folds positives minus negatives into a single signed contribution.
// Callers scale it (by 0.1) before applying to mental stability.
func (f StabilityFactors) Delta() int {
	pos := f.RecentVictories + f.GoodTeamwork + f.StrategicSuccess + f.OptimalHealth
	neg := f.RecentDefeats + f.TeamConflicts + f.StrategicFailures + f.LowHealth + f.OverwhelmingOdds
	return pos - neg
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
