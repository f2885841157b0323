package adapter

import (
	"strings"
	"testing"

	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
)

func detailCreature() *domain.Creature {
	return &domain.Creature{
		ID:         25,
		Name:       "pikachu",
		KoreanName: "피카츄",
		Types:      []string{"electric"},
		Abilities:  []string{"static", "lightning-rod"},
		Height:     4,
		Weight:     60,
		Moves:      []string{"thunderbolt", "quick-attack"},
		Sprite:     "https://img.test/pikachu.png",
		Stats: []domain.StatEntry{
			{Name: "hp", Base: 35},
			{Name: "attack", Base: 55},
			{Name: "speed", Base: 90},
		},
	}
}

func TestFormatCreatureDetail(t *testing.T) {
	f := NewResponseFormatter("!")

	out := f.FormatCreatureDetail(detailCreature(), 54, 69.5)

	for _, want := range []string{
		"📘 No.0025 피카츄 (pikachu)",
		"🏷️ 타입: 전기",
		"✨ 특성: static, lightning-rod",
		"📏 키 0.4m · 몸무게 6.0kg",
		"📊 종족값",
		"HP 35",
		"공격 55",
		"스피드 90",
		"합계 180",
		"💪 전투력 54/100",
		"🎯 포획 확률 70%",
		"🎮 기술: thunderbolt, quick-attack",
		"!잡기 피카츄",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected detail to contain %q, got:\n%s", want, out)
		}
	}
}

func TestFormatCreatureDetailNil(t *testing.T) {
	f := NewResponseFormatter("!")
	out := f.FormatCreatureDetail(nil, 0, 0)
	if !strings.Contains(out, "찾을 수 없습니다") {
		t.Fatalf("unexpected nil output: %q", out)
	}
}

func TestFormatCatchResultVariants(t *testing.T) {
	f := NewResponseFormatter("!")
	creature := detailCreature()

	escaped := f.FormatCatchResult(creature, 69.5, false, false)
	if !strings.Contains(escaped, "💨 앗! 피카츄가 도망갔어요") {
		t.Fatalf("expected escape message with 가 particle, got:\n%s", escaped)
	}
	if !strings.Contains(escaped, "70%") {
		t.Fatalf("expected chance in escape message, got:\n%s", escaped)
	}

	caught := f.FormatCatchResult(creature, 69.5, true, true)
	if !strings.Contains(caught, "🎉 잡았다! 피카츄 GET!") {
		t.Fatalf("expected catch message, got:\n%s", caught)
	}
	if !strings.Contains(caught, "✨ NEW!") || !strings.Contains(caught, "!컬렉션") {
		t.Fatalf("expected new-entry notice, got:\n%s", caught)
	}

	duplicate := f.FormatCatchResult(creature, 69.5, true, false)
	if strings.Contains(duplicate, "NEW") {
		t.Fatalf("expected no NEW marker on duplicate, got:\n%s", duplicate)
	}
	if !strings.Contains(duplicate, "이미 도감에 있는") {
		t.Fatalf("expected duplicate notice, got:\n%s", duplicate)
	}
}

func TestFormatCatchResultFinalConsonantParticle(t *testing.T) {
	f := NewResponseFormatter("!")
	creature := &domain.Creature{ID: 133, Name: "eevee", KoreanName: "이브이"}

	out := f.FormatCatchResult(creature, 50, false, false)
	if !strings.Contains(out, "이브이가 도망갔어요") {
		t.Fatalf("expected 가 after open syllable, got:\n%s", out)
	}

	creature = &domain.Creature{ID: 6, Name: "charizard", KoreanName: "리자몽"}
	out = f.FormatCatchResult(creature, 50, false, false)
	if !strings.Contains(out, "리자몽이 도망갔어요") {
		t.Fatalf("expected 이 after final consonant, got:\n%s", out)
	}
}

func TestFormatCollection(t *testing.T) {
	f := NewResponseFormatter("!")
	records := []domain.CaughtRecord{
		{ID: 25, Name: "피카츄"},
		{ID: 133, Name: "이브이"},
	}

	out := f.FormatCollection("지우", records, domain.CollectorStats{Attempts: 10, Successes: 4})
	for _, want := range []string{
		"📦 지우님의 도감 (2마리)",
		"1. No.0025 피카츄",
		"2. No.0133 이브이",
		"🎯 포획 시도 10회 · 성공률 40%",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected collection to contain %q, got:\n%s", want, out)
		}
	}
}

func TestFormatCollectionEmpty(t *testing.T) {
	f := NewResponseFormatter("!")
	out := f.FormatCollection("지우", nil, domain.CollectorStats{})
	if !strings.Contains(out, "아직 잡은 포켓몬이 없어요") {
		t.Fatalf("expected empty notice, got:\n%s", out)
	}
	if !strings.Contains(out, "!잡기 피카츄") {
		t.Fatalf("expected usage example, got:\n%s", out)
	}
}

func TestFormatCollectionWithoutStats(t *testing.T) {
	f := NewResponseFormatter("!")
	records := []domain.CaughtRecord{{ID: 25, Name: "피카츄"}}

	out := f.FormatCollection("지우", records, domain.CollectorStats{})
	if strings.Contains(out, "포획 시도") {
		t.Fatalf("expected no stats footer at zero attempts, got:\n%s", out)
	}
}

func TestFormatQuizRound(t *testing.T) {
	f := NewResponseFormatter("!")
	round := &domain.QuizRound{
		Answer: domain.CreatureRef{ID: 25, Name: "pikachu", KoreanName: "피카츄"},
		Choices: []domain.CreatureRef{
			{ID: 1, KoreanName: "이상해씨"},
			{ID: 25, KoreanName: "피카츄"},
			{ID: 4, KoreanName: "파이리"},
			{ID: 7, KoreanName: "꼬부기"},
		},
	}

	out := f.FormatQuizRound(round)
	for _, want := range []string{
		"🎲 포켓몬 퀴즈!",
		"1. 이상해씨",
		"2. 피카츄",
		"3. 파이리",
		"4. 꼬부기",
		"90초 안에",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected quiz round to contain %q, got:\n%s", want, out)
		}
	}
}

func TestFormatQuizOutcomes(t *testing.T) {
	f := NewResponseFormatter("!")
	answer := domain.CreatureRef{ID: 25, Name: "pikachu", KoreanName: "피카츄"}

	correct := f.FormatQuizCorrect("지우", answer)
	if !strings.Contains(correct, "지우님이 맞췄어요") || !strings.Contains(correct, "No.0025 피카츄") {
		t.Fatalf("unexpected correct message:\n%s", correct)
	}

	wrong := f.FormatQuizWrong(answer)
	if !strings.Contains(wrong, "오답") || !strings.Contains(wrong, "No.0025 피카츄") {
		t.Fatalf("unexpected wrong message:\n%s", wrong)
	}

	unmatched := f.FormatQuizUnmatchedGuess(4)
	if !strings.Contains(unmatched, "1~4") {
		t.Fatalf("unexpected unmatched message:\n%s", unmatched)
	}

	none := f.FormatQuizNoRound()
	if !strings.Contains(none, "진행 중인 퀴즈가 없어요") || !strings.Contains(none, "!퀴즈") {
		t.Fatalf("unexpected no-round message:\n%s", none)
	}
}

func TestFormatCreaturePage(t *testing.T) {
	f := NewResponseFormatter("!")
	creatures := []*domain.Creature{
		{ID: 1, Name: "bulbasaur", KoreanName: "이상해씨", Types: []string{"grass", "poison"}},
		{ID: 4, Name: "charmander", KoreanName: "파이리", Types: []string{"fire"}},
	}

	out := f.FormatCreaturePage(creatures, 1, 8, 151, 0)
	for _, want := range []string{
		"📖 포켓몬 도감 (1/8 페이지, 총 151마리)",
		"No.0001 이상해씨 · 풀/독",
		"No.0004 파이리 · 불꽃",
		"!목록 2 로 다음 페이지",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected page to contain %q, got:\n%s", want, out)
		}
	}
}

func TestFormatCreaturePageLastPageHasNoNextHint(t *testing.T) {
	f := NewResponseFormatter("!")
	creatures := []*domain.Creature{{ID: 151, Name: "mew", KoreanName: "뮤"}}

	out := f.FormatCreaturePage(creatures, 8, 8, 151, 0)
	if strings.Contains(out, "다음 페이지") {
		t.Fatalf("expected no next-page hint on last page, got:\n%s", out)
	}
}

func TestFormatCreaturePageReportsDrops(t *testing.T) {
	f := NewResponseFormatter("!")
	creatures := []*domain.Creature{{ID: 1, Name: "bulbasaur", KoreanName: "이상해씨"}}

	out := f.FormatCreaturePage(creatures, 1, 8, 151, 3)
	if !strings.Contains(out, "⚠️ 3마리는 불러오지 못했어요") {
		t.Fatalf("expected drop warning, got:\n%s", out)
	}
}

func TestFormatNotFound(t *testing.T) {
	f := NewResponseFormatter("!")

	out := f.FormatNotFound("피카추", []string{"피카츄", "라이츄"})
	if !strings.Contains(out, "'피카추'를 찾을 수 없어요") {
		t.Fatalf("expected not-found line with 를 particle, got:\n%s", out)
	}
	if !strings.Contains(out, "혹시 이 포켓몬인가요?") {
		t.Fatalf("expected suggestion header, got:\n%s", out)
	}
	if !strings.Contains(out, "- 피카츄") || !strings.Contains(out, "- 라이츄") {
		t.Fatalf("expected suggestions listed, got:\n%s", out)
	}

	bare := f.FormatNotFound("리자몽", nil)
	if !strings.Contains(bare, "'리자몽'을 찾을 수 없어요") {
		t.Fatalf("expected 을 particle, got:\n%s", bare)
	}
	if strings.Contains(bare, "혹시") {
		t.Fatalf("expected no suggestion block, got:\n%s", bare)
	}
}

func TestFormatRanking(t *testing.T) {
	f := NewResponseFormatter("!")
	ranks := []domain.CollectorRank{
		{Sender: "지우", Caught: 12, Attempts: 30},
		{Sender: "이슬", Caught: 9, Attempts: 14},
		{Sender: "웅", Caught: 7, Attempts: 21},
		{Sender: "로사", Caught: 2, Attempts: 5},
	}

	out := f.FormatRanking(ranks)
	for _, want := range []string{
		"🥇 지우 - 12마리 (시도 30회)",
		"🥈 이슬 - 9마리",
		"🥉 웅 - 7마리",
		"4. 로사 - 2마리",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected ranking to contain %q, got:\n%s", want, out)
		}
	}
}

func TestFormatHelpListsEveryCommand(t *testing.T) {
	f := NewResponseFormatter("!")
	out := f.FormatHelp()

	for _, want := range []string{"!도감", "!목록", "!검색", "!잡기", "!컬렉션", "!순위", "!퀴즈", "!정답"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected help to contain %q", want)
		}
	}
}

func TestFormatterDefaultsBlankPrefix(t *testing.T) {
	f := NewResponseFormatter("  ")
	out := f.FormatUnknownRequest()
	if !strings.Contains(out, "!도움말") {
		t.Fatalf("expected blank prefix to default to !, got:\n%s", out)
	}
}

func TestParticleHelpers(t *testing.T) {
	tests := []struct {
		word    string
		subject string
		object  string
	}{
		{"피카츄", "가", "를"},
		{"리자몽", "이", "을"},
		{"이브이", "가", "를"},
		{"Pikachu", "이(가)", "을(를)"},
		{"", "이(가)", "을(를)"},
	}

	for _, tt := range tests {
		if got := subjectParticle(tt.word); got != tt.subject {
			t.Fatalf("subjectParticle(%q) = %q, want %q", tt.word, got, tt.subject)
		}
		if got := objectParticle(tt.word); got != tt.object {
			t.Fatalf("objectParticle(%q) = %q, want %q", tt.word, got, tt.object)
		}
	}
}

func TestHangulFinal(t *testing.T) {
	if got := hangulFinal("몽"); got != 1 {
		t.Fatalf("expected final consonant, got %d", got)
	}
	if got := hangulFinal("츄"); got != 0 {
		t.Fatalf("expected open syllable, got %d", got)
	}
	if got := hangulFinal("abc"); got != -1 {
		t.Fatalf("expected non-hangul, got %d", got)
	}
}
