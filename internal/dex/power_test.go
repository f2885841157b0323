package dex

import (
	"testing"

	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
)

func TestPowerScoreKnownValue(t *testing.T) {
	stats := []domain.StatEntry{
		{Name: "hp", Base: 100},
		{Name: "attack", Base: 100},
		{Name: "defense", Base: 100},
		{Name: "special-attack", Base: 100},
		{Name: "special-defense", Base: 100},
		{Name: "speed", Base: 100},
	}

	// 100*(0.9+1.2+0.9+1.0+0.9+1.1) = 600 -> 600/800*100 = 75
	if got := PowerScore(stats); got != 75 {
		t.Fatalf("expected power score 75, got %d", got)
	}
}

func TestPowerScoreRange(t *testing.T) {
	tests := []struct {
		name  string
		stats []domain.StatEntry
	}{
		{"empty", nil},
		{"single tiny stat", []domain.StatEntry{{Name: "hp", Base: 1}}},
		{"maxed stats", []domain.StatEntry{
			{Name: "hp", Base: 255},
			{Name: "attack", Base: 255},
			{Name: "defense", Base: 255},
			{Name: "special-attack", Base: 255},
			{Name: "special-defense", Base: 255},
			{Name: "speed", Base: 255},
		}},
		{"absurdly large", []domain.StatEntry{{Name: "attack", Base: 100000}}},
		{"negative only", []domain.StatEntry{{Name: "attack", Base: -50}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PowerScore(tt.stats)
			if got < 1 || got > 100 {
				t.Fatalf("power score %d outside [1,100]", got)
			}
		})
	}
}

func TestPowerScoreEmpty(t *testing.T) {
	if got := PowerScore(nil); got != 1 {
		t.Fatalf("expected empty stat list to score 1, got %d", got)
	}
	if got := PowerScore([]domain.StatEntry{}); got != 1 {
		t.Fatalf("expected empty stat list to score 1, got %d", got)
	}
}

func TestPowerScoreDeterministic(t *testing.T) {
	stats := []domain.StatEntry{
		{Name: "hp", Base: 45},
		{Name: "attack", Base: 49},
		{Name: "defense", Base: 49},
		{Name: "special-attack", Base: 65},
		{Name: "special-defense", Base: 65},
		{Name: "speed", Base: 45},
	}

	first := PowerScore(stats)
	second := PowerScore(stats)
	if first != second {
		t.Fatalf("expected deterministic score, got %d then %d", first, second)
	}
}

func TestPowerScoreRoundingHalfUp(t *testing.T) {
	// Unknown stat names carry weight 1.0, so the raw score is exactly
	// base/8 and the .5 cases are easy to pin down.
	tests := []struct {
		name string
		base int
		want int
	}{
		{"raw 0.5 rounds up to 1", 4, 1},
		{"raw 1.5 rounds up to 2", 12, 2},
		{"raw 2.5 rounds up to 3 (not bankers)", 20, 3},
		{"raw 2.375 rounds down to 2", 19, 2},
		{"raw 0.375 rounds to 0 then clamps to 1", 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PowerScore([]domain.StatEntry{{Name: "mystery", Base: tt.base}})
			if got != tt.want {
				t.Fatalf("expected %d for base %d, got %d", tt.want, tt.base, got)
			}
		})
	}
}

func TestPowerScoreClampCeiling(t *testing.T) {
	stats := []domain.StatEntry{{Name: "attack", Base: 10000}}
	if got := PowerScore(stats); got != 100 {
		t.Fatalf("expected ceiling clamp to 100, got %d", got)
	}
}

func TestPowerScoreUnknownStatWeight(t *testing.T) {
	// 80 * 1.0 / 800 * 100 = 10
	if got := PowerScore([]domain.StatEntry{{Name: "cuteness", Base: 80}}); got != 10 {
		t.Fatalf("expected unknown stat to use default weight, got %d", got)
	}
}

func TestPowerScoreNegativeBaseIgnored(t *testing.T) {
	with := PowerScore([]domain.StatEntry{
		{Name: "attack", Base: 120},
		{Name: "speed", Base: -999},
	})
	without := PowerScore([]domain.StatEntry{
		{Name: "attack", Base: 120},
	})
	if with != without {
		t.Fatalf("expected negative base to contribute nothing, got %d vs %d", with, without)
	}
}

func TestStatWeight(t *testing.T) {
	tests := []struct {
		stat string
		want float64
	}{
		{"hp", 0.9},
		{"attack", 1.2},
		{"defense", 0.9},
		{"special-attack", 1.0},
		{"special-defense", 0.9},
		{"speed", 1.1},
		{"evasion", 1.0},
		{"", 1.0},
	}

	for _, tt := range tests {
		if got := StatWeight(tt.stat); got != tt.want {
			t.Fatalf("StatWeight(%q) = %v, want %v", tt.stat, got, tt.want)
		}
	}
}
