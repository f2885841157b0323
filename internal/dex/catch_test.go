package dex

import (
	"math"
	"testing"
)

// stubSource returns fixed values, for pinning down threshold behavior.
type stubSource struct {
	f float64
	n int
}

func (s *stubSource) Float64() float64 { return s.f }
func (s *stubSource) IntN(n int) int   { return s.n % n }

func TestCatchChanceBounds(t *testing.T) {
	tests := []struct {
		name string
		hp   int
		want float64
	}{
		{"zero hp hits the cap", 0, 80},
		{"tanky hp clamps to the floor", 1000, 10},
		{"hp 100 sits mid-curve", 100, 50},
		{"hp 50", 50, 65},
		{"hp 200", 200, 20},
		{"barely above the floor", 230, 11},
		{"just past the floor clamps", 240, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CatchChance(tt.hp)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("CatchChance(%d) = %v, want %v", tt.hp, got, tt.want)
			}
		})
	}
}

func TestCatchChanceWithinBoundsAlways(t *testing.T) {
	for hp := -10; hp <= 2000; hp += 7 {
		got := CatchChance(hp)
		if got < 10 || got > 80 {
			t.Fatalf("CatchChance(%d) = %v outside [10,80]", hp, got)
		}
	}
}

func TestAttemptCatchThreshold(t *testing.T) {
	// hp 100 -> chance 50: the sample space [0,100) splits exactly at 50.
	tests := []struct {
		name   string
		sample float64
		want   bool
	}{
		{"sample just below chance succeeds", 0.499, true},
		{"sample at chance fails", 0.5, false},
		{"sample well above chance fails", 0.9, false},
		{"zero sample succeeds", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &stubSource{f: tt.sample}
			if got := AttemptCatch(100, src); got != tt.want {
				t.Fatalf("AttemptCatch(100) with sample %v = %v, want %v", tt.sample, got, tt.want)
			}
		})
	}
}

func TestAttemptCatchStatistical(t *testing.T) {
	tests := []struct {
		name   string
		hp     int
		chance float64
	}{
		{"mid curve", 100, 0.50},
		{"floor", 1000, 0.10},
		{"cap", 0, 0.80},
	}

	const trials = 20000

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewSeededSource(42)
			successes := 0
			for i := 0; i < trials; i++ {
				if AttemptCatch(tt.hp, src) {
					successes++
				}
			}

			rate := float64(successes) / trials
			if math.Abs(rate-tt.chance) > 0.02 {
				t.Fatalf("empirical rate %v too far from %v over %d trials", rate, tt.chance, trials)
			}
		})
	}
}

func TestSeededSourceDeterministic(t *testing.T) {
	a := NewSeededSource(7)
	b := NewSeededSource(7)

	for i := 0; i < 100; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("same seed diverged at draw %d", i)
		}
	}
}
