package dex

const (
	maxCatchChance = 80.0
	minCatchChance = 10.0
	hpCatchSlope   = 0.3
)

// CatchChance maps a hit-point base stat to a catch probability in
// percentage points: sturdier creatures are harder to catch, but no
// creature is impossible (floor 10) or guaranteed (cap 80).
func CatchChance(hpBase int) float64 {
	chance := maxCatchChance - float64(hpBase)*hpCatchSlope
	if chance < minCatchChance {
		return minCatchChance
	}
	if chance > maxCatchChance {
		return maxCatchChance
	}
	return chance
}

// AttemptCatch runs one Bernoulli trial against CatchChance(hpBase):
// a single uniform sample over [0,100), success iff it falls below the
// chance. The function itself has no side effects; registering the caught
// creature is the caller's job.
func AttemptCatch(hpBase int, src Source) bool {
	return src.Float64()*100 < CatchChance(hpBase)
}
