package service

import (
	"testing"
)

func TestMatchScoreTiers(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		candidate string
		want      float64
	}{
		{"exact korean", "피카츄", "피카츄", 1.0},
		{"exact after normalize", " Pikachu ", "pikachu", 1.0},
		{"exact across separators", "mr mime", "mr-mime", 1.0},
		{"exact without apostrophe", "farfetchd", "farfetch'd", 1.0},
		{"prefix", "피카", "피카츄", 0.9},
		{"substring", "카츄", "피카츄", 0.8},
		{"one edit", "pikachi", "pikachu", 0.64},
		{"one edit korean", "파미리", "파이리", 0.64},
		{"unrelated", "mew", "pikachu", 0},
		{"empty query", "", "pikachu", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchScore(tt.query, tt.candidate)
			if got != tt.want {
				t.Fatalf("matchScore(%q, %q) = %v, want %v", tt.query, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestMatchScoreShortCandidatesAreStrict(t *testing.T) {
	// One edit is tolerated on a three-rune name, two edits are not.
	if got := matchScore("mex", "mew"); got != 0.64 {
		t.Fatalf("expected one edit on short name to score 0.64, got %v", got)
	}
	if got := matchScore("mxy", "mew"); got != 0 {
		t.Fatalf("expected two edits on short name to score 0, got %v", got)
	}
}

func TestEditDistanceLimitScalesWithLength(t *testing.T) {
	tests := []struct {
		length int
		want   int
	}{
		{3, 1},
		{4, 1},
		{5, 2},
		{7, 2},
		{8, 3},
		{12, 3},
	}

	for _, tt := range tests {
		if got := editDistanceLimit(tt.length); got != tt.want {
			t.Fatalf("editDistanceLimit(%d) = %d, want %d", tt.length, got, tt.want)
		}
	}
}

func TestScoreCandidatesOrdersAndFilters(t *testing.T) {
	candidates := []matchCandidate{
		{display: "파이리", query: "4", names: []string{"charmander", "파이리"}},
		{display: "피카츄", query: "25", names: []string{"pikachu", "피카츄"}},
		{display: "꼬부기", query: "7", names: []string{"squirtle", "꼬부기"}},
	}

	scored := scoreCandidates("피카츄", candidates)
	if len(scored) != 1 {
		t.Fatalf("expected only the exact match to survive the threshold, got %d", len(scored))
	}
	if scored[0].display != "피카츄" || scored[0].score != 1.0 {
		t.Fatalf("expected 피카츄 at 1.0, got %s at %v", scored[0].display, scored[0].score)
	}
}

func TestScoreCandidatesUsesBestNameOfEach(t *testing.T) {
	candidates := []matchCandidate{
		{display: "피카츄", query: "25", names: []string{"pikachu", "피카츄"}},
		{display: "피카츄2", query: "26", names: []string{"raichu", "피카츄2"}},
	}

	scored := scoreCandidates("pika", candidates)
	if len(scored) != 1 {
		t.Fatalf("expected one prefix match, got %d", len(scored))
	}
	if scored[0].query != "25" || scored[0].score != 0.9 {
		t.Fatalf("expected pikachu prefix match at 0.9, got %s at %v", scored[0].query, scored[0].score)
	}
}

func TestScoreCandidatesSortsByScore(t *testing.T) {
	candidates := []matchCandidate{
		{display: "피카츄단", query: "a", names: []string{"피카츄단"}},
		{display: "피카츄", query: "b", names: []string{"피카츄"}},
		{display: "라이츄피카츄", query: "c", names: []string{"라이츄피카츄"}},
	}

	scored := scoreCandidates("피카츄", candidates)
	if len(scored) != 3 {
		t.Fatalf("expected three candidates over the threshold, got %d", len(scored))
	}
	if scored[0].query != "b" {
		t.Fatalf("expected exact match first, got %s", scored[0].display)
	}
	if scored[1].query != "a" {
		t.Fatalf("expected prefix match second, got %s", scored[1].display)
	}
	if scored[2].query != "c" {
		t.Fatalf("expected substring match third, got %s", scored[2].display)
	}
}

func TestSuggestionNamesDeduplicatesAndCaps(t *testing.T) {
	scored := []scoredCandidate{
		{display: "피카츄", score: 0.9},
		{display: "피카츄", score: 0.85},
		{display: "라이츄", score: 0.8},
		{display: "파이리", score: 0.7},
		{display: "꼬부기", score: 0.6},
	}

	names := suggestionNames(scored)
	if len(names) != 3 {
		t.Fatalf("expected three suggestions, got %d: %v", len(names), names)
	}
	if names[0] != "피카츄" || names[1] != "라이츄" || names[2] != "파이리" {
		t.Fatalf("unexpected suggestion order: %v", names)
	}
}

func TestHasHangul(t *testing.T) {
	if !hasHangul("피카츄") {
		t.Fatal("expected hangul to be detected")
	}
	if hasHangul("pikachu-25") {
		t.Fatal("expected latin slug to report no hangul")
	}
}
