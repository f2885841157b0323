package dex

import (
	"math"

	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"github.com/kapu/pokedex-kakao-bot-go/internal/util"
)

// powerDenominator normalizes the weighted stat sum: 800 weighted points
// map to a raw score of 100.
const powerDenominator = 800.0

// PowerScore condenses a creature's base stats into a single 1..100 value.
// Each stat contributes base*weight; the weighted sum is normalized against
// powerDenominator, rounded half-up, then clamped. The clamp runs after
// rounding so an empty or minimal stat list lands on the floor of 1.
// Negative base values are treated as 0.
func PowerScore(stats []domain.StatEntry) int {
	var sum float64
	for _, s := range stats {
		if s.Base < 0 {
			continue
		}
		sum += float64(s.Base) * StatWeight(s.Name)
	}

	raw := sum / powerDenominator * 100
	score := int(math.Floor(raw + 0.5))

	return util.Clamp(score, 1, 100)
}
