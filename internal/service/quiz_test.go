package service

import (
	"testing"

	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
)

func quizTestRound() *domain.QuizRound {
	return &domain.QuizRound{
		Room:   "room1",
		Answer: domain.CreatureRef{ID: 25, Name: "pikachu", KoreanName: "피카츄"},
		Choices: []domain.CreatureRef{
			{ID: 1, Name: "bulbasaur", KoreanName: "이상해씨"},
			{ID: 25, Name: "pikachu", KoreanName: "피카츄"},
			{ID: 4, Name: "charmander", KoreanName: "파이리"},
			{ID: 7, Name: "squirtle", KoreanName: "꼬부기"},
		},
	}
}

func TestMatchChoiceByNumber(t *testing.T) {
	round := quizTestRound()

	matched := matchChoice(round, "2")
	if matched == nil {
		t.Fatal("expected choice 2 to match")
	}
	if matched.ID != 25 {
		t.Fatalf("expected choice 2 to be pikachu, got %d", matched.ID)
	}
}

func TestMatchChoiceNumberOutOfRange(t *testing.T) {
	round := quizTestRound()

	for _, guess := range []string{"0", "5", "-1"} {
		if matched := matchChoice(round, guess); matched != nil {
			t.Fatalf("expected %q to match nothing, got %v", guess, matched)
		}
	}
}

func TestMatchChoiceByKoreanName(t *testing.T) {
	round := quizTestRound()

	matched := matchChoice(round, " 파이리 ")
	if matched == nil {
		t.Fatal("expected korean name to match")
	}
	if matched.ID != 4 {
		t.Fatalf("expected 파이리 to be id 4, got %d", matched.ID)
	}
}

func TestMatchChoiceByEnglishNameIsCaseInsensitive(t *testing.T) {
	round := quizTestRound()

	matched := matchChoice(round, "SQUIRTLE")
	if matched == nil {
		t.Fatal("expected english name to match")
	}
	if matched.ID != 7 {
		t.Fatalf("expected squirtle to be id 7, got %d", matched.ID)
	}
}

func TestMatchChoiceMissReturnsNil(t *testing.T) {
	round := quizTestRound()

	if matched := matchChoice(round, "뮤츠"); matched != nil {
		t.Fatalf("expected unknown name to match nothing, got %v", matched)
	}
	if matched := matchChoice(round, ""); matched != nil {
		t.Fatalf("expected empty guess to match nothing, got %v", matched)
	}
}

func TestQuizRoundChoiceBounds(t *testing.T) {
	round := quizTestRound()

	if !round.IsChoice(1) || !round.IsChoice(4) {
		t.Fatal("expected 1 and 4 to be valid choices")
	}
	if round.IsChoice(0) || round.IsChoice(5) {
		t.Fatal("expected 0 and 5 to be out of range")
	}
	if got := round.Choice(3); got.ID != 4 {
		t.Fatalf("expected choice 3 to be charmander, got %d", got.ID)
	}
	if got := round.Choice(9); got.ID != 0 {
		t.Fatalf("expected out of range choice to be zero, got %d", got.ID)
	}
}
