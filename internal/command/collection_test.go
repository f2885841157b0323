package command

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
)

func TestCollectionCommandFormatsRecords(t *testing.T) {
	collection := &fakeCollection{
		records: []domain.CaughtRecord{
			{ID: 25, Name: "피카츄"},
			{ID: 7, Name: "꼬부기"},
		},
	}
	history := &fakeHistory{stats: domain.CollectorStats{Attempts: 10, Successes: 4}}

	deps, rec := newTestDeps()
	deps.Collection = collection
	deps.History = history

	cmd := NewCollectionCommand(deps)
	if err := cmd.Execute(context.Background(), testContext(), nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(rec.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(rec.messages))
	}
	message := rec.messages[0]

	if !strings.Contains(message, "지우님의 도감 (2마리)") {
		t.Fatalf("expected header with count, got %q", message)
	}
	if !strings.Contains(message, "1. No.0025 피카츄") {
		t.Fatalf("expected insertion-ordered entries, got %q", message)
	}
	if !strings.Contains(message, "포획 시도 10회") {
		t.Fatalf("expected stats footer, got %q", message)
	}
}

func TestCollectionCommandEmptyShowsUsage(t *testing.T) {
	deps, rec := newTestDeps()
	deps.Collection = &fakeCollection{}
	deps.History = &fakeHistory{}

	cmd := NewCollectionCommand(deps)
	if err := cmd.Execute(context.Background(), testContext(), nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(rec.messages) != 1 || !strings.Contains(rec.messages[0], "아직 잡은 포켓몬이 없어요") {
		t.Fatalf("expected empty-collection notice, got %v", rec.messages)
	}
	if !strings.Contains(rec.messages[0], "!잡기") {
		t.Fatalf("expected usage hint with prefix, got %q", rec.messages[0])
	}
}

func TestCollectionCommandSurvivesStatsFailure(t *testing.T) {
	collection := &fakeCollection{
		records: []domain.CaughtRecord{{ID: 25, Name: "피카츄"}},
	}
	history := &fakeHistory{statsErr: fmt.Errorf("db down")}

	deps, rec := newTestDeps()
	deps.Collection = collection
	deps.History = history

	cmd := NewCollectionCommand(deps)
	if err := cmd.Execute(context.Background(), testContext(), nil); err != nil {
		t.Fatalf("stats failure must not fail the command, got %v", err)
	}

	if len(rec.messages) != 1 || !strings.Contains(rec.messages[0], "피카츄") {
		t.Fatalf("expected records without stats footer, got %v", rec.messages)
	}
	if strings.Contains(rec.messages[0], "포획 시도") {
		t.Fatalf("stats footer must be dropped when stats are unavailable, got %q", rec.messages[0])
	}
}

func TestRankingCommandFormatsMedals(t *testing.T) {
	history := &fakeHistory{
		ranks: []domain.CollectorRank{
			{Sender: "지우", Caught: 12, Attempts: 30},
			{Sender: "이슬", Caught: 9, Attempts: 20},
			{Sender: "웅", Caught: 5, Attempts: 25},
			{Sender: "로사", Caught: 1, Attempts: 3},
		},
	}

	deps, rec := newTestDeps()
	deps.History = history

	cmd := NewRankingCommand(deps)
	if err := cmd.Execute(context.Background(), testContext(), nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	message := rec.messages[0]
	if !strings.Contains(message, "🥇 지우") || !strings.Contains(message, "🥈 이슬") || !strings.Contains(message, "🥉 웅") {
		t.Fatalf("expected medals for top three, got %q", message)
	}
	if !strings.Contains(message, "4. 로사") {
		t.Fatalf("expected numbered entry after medals, got %q", message)
	}
	if !strings.Contains(message, "12마리") {
		t.Fatalf("expected caught counts, got %q", message)
	}
}

func TestRankingCommandEmpty(t *testing.T) {
	deps, rec := newTestDeps()
	deps.History = &fakeHistory{}

	cmd := NewRankingCommand(deps)
	if err := cmd.Execute(context.Background(), testContext(), nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(rec.messages) != 1 || !strings.Contains(rec.messages[0], "아직 포획 기록이 없어요") {
		t.Fatalf("expected empty-ranking notice, got %v", rec.messages)
	}
}

func TestRankingCommandQueryFailure(t *testing.T) {
	deps, rec := newTestDeps()
	deps.History = &fakeHistory{ranksErr: fmt.Errorf("db down")}

	cmd := NewRankingCommand(deps)
	if err := cmd.Execute(context.Background(), testContext(), nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(rec.errors) != 1 || !strings.Contains(rec.errors[0], "순위를 불러오지 못했어요") {
		t.Fatalf("expected retryable ranking error, got %v", rec.errors)
	}
}
