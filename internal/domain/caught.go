package domain

import "time"

// CaughtRecord is one caught creature as persisted in a collection
// snapshot. Created on the first successful catch of an id and never
// mutated afterwards; the sprite reference is kept opaque.
type CaughtRecord struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Sprite string `json:"sprite,omitempty"`
}

// CatchAttempt is one throw as recorded in the history table, successful
// or not.
type CatchAttempt struct {
	Room         string    `json:"room"`
	Sender       string    `json:"sender"`
	CreatureID   int       `json:"creature_id"`
	CreatureName string    `json:"creature_name"`
	PowerScore   int       `json:"power_score"`
	CatchChance  float64   `json:"catch_chance"`
	Success      bool      `json:"success"`
	CaughtAt     time.Time `json:"caught_at"`
}

// CollectorRank is one row of the per-room leaderboard.
type CollectorRank struct {
	Sender   string `json:"sender"`
	Caught   int    `json:"caught"`
	Attempts int    `json:"attempts"`
}

// CollectorStats summarizes one user's attempts in a room.
type CollectorStats struct {
	Attempts  int `json:"attempts"`
	Successes int `json:"successes"`
}
