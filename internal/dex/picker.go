package dex

import (
	"fmt"

	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
)

// InsufficientPoolError reports a quiz pool too small to fill a choice set.
// Have counts distinct ids including the answer.
type InsufficientPoolError struct {
	Need int
	Have int
}

func (e *InsufficientPoolError) Error() string {
	return fmt.Sprintf("insufficient quiz pool: need %d distinct creatures, have %d", e.Need, e.Have)
}

// PickDistractors builds a shuffled choice set of length count containing
// the answer exactly once. The count-1 distractors are drawn uniformly
// without replacement from the pool with the answer (and any duplicate ids)
// removed; the final order is a uniform Fisher-Yates shuffle so the answer
// position is unpredictable.
func PickDistractors(pool []domain.CreatureRef, answer domain.CreatureRef, count int, src Source) ([]domain.CreatureRef, error) {
	if count < 1 {
		return nil, &InsufficientPoolError{Need: count, Have: 0}
	}

	candidates := make([]domain.CreatureRef, 0, len(pool))
	seen := map[int]struct{}{answer.ID: {}}
	for _, ref := range pool {
		if _, dup := seen[ref.ID]; dup {
			continue
		}
		seen[ref.ID] = struct{}{}
		candidates = append(candidates, ref)
	}

	if len(candidates) < count-1 {
		return nil, &InsufficientPoolError{Need: count, Have: len(candidates) + 1}
	}

	// Partial Fisher-Yates: the first count-1 positions end up holding a
	// uniform draw without replacement.
	for i := 0; i < count-1; i++ {
		j := i + src.IntN(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}

	choices := make([]domain.CreatureRef, 0, count)
	choices = append(choices, candidates[:count-1]...)
	choices = append(choices, answer)

	for i := len(choices) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		choices[i], choices[j] = choices[j], choices[i]
	}

	return choices, nil
}
