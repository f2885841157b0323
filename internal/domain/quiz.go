package domain

import "time"

// QuizRound is the pending "who's that Pokémon" state for one room,
// serialized to the cache with a TTL. Choices are already shuffled; the
// answer index is not stored separately so a leaked payload spoils nothing
// beyond what Answer itself reveals.
type QuizRound struct {
	Room      string        `json:"room"`
	Answer    CreatureRef   `json:"answer"`
	Choices   []CreatureRef `json:"choices"`
	Sprite    string        `json:"sprite,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// IsChoice reports whether n is a valid 1-based choice number.
func (q *QuizRound) IsChoice(n int) bool {
	if q == nil {
		return false
	}
	return n >= 1 && n <= len(q.Choices)
}

// Choice returns the 1-based choice, zero value when out of range.
func (q *QuizRound) Choice(n int) CreatureRef {
	if !q.IsChoice(n) {
		return CreatureRef{}
	}
	return q.Choices[n-1]
}
