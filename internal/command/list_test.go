package command

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
)

func listRefs() []domain.CreatureRef {
	return []domain.CreatureRef{
		{ID: 1, Name: "bulbasaur", KoreanName: "이상해씨"},
		{ID: 2, Name: "ivysaur", KoreanName: "이상해풀"},
		{ID: 3, Name: "venusaur", KoreanName: "이상해꽃"},
	}
}

func TestListCommandFormatsPage(t *testing.T) {
	dexClient := &fakeDexClient{refs: listRefs(), total: 151}

	deps, rec := newTestDeps()
	deps.Dex = dexClient

	cmd := NewListCommand(deps)
	if err := cmd.Execute(context.Background(), testContext(), map[string]any{"page": 1}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(rec.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(rec.messages))
	}
	message := rec.messages[0]

	if !strings.Contains(message, "No.0001") || !strings.Contains(message, "이상해씨") {
		t.Fatalf("expected first entry in page, got %q", message)
	}
	if !strings.Contains(message, "총 151마리") {
		t.Fatalf("expected total count, got %q", message)
	}
	if strings.Contains(message, "불러오지 못했어요") {
		t.Fatalf("clean page must not warn about drops, got %q", message)
	}
}

func TestListCommandDropsFailedEntries(t *testing.T) {
	dexClient := &fakeDexClient{
		refs:    listRefs(),
		total:   151,
		failIDs: map[int]error{2: fmt.Errorf("detail fetch failed")},
	}

	deps, rec := newTestDeps()
	deps.Dex = dexClient

	cmd := NewListCommand(deps)
	if err := cmd.Execute(context.Background(), testContext(), map[string]any{"page": 1}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	message := rec.messages[0]
	if strings.Contains(message, "이상해풀") {
		t.Fatalf("failed entry must be dropped from the page, got %q", message)
	}
	if !strings.Contains(message, "이상해씨") || !strings.Contains(message, "이상해꽃") {
		t.Fatalf("surviving entries must render, got %q", message)
	}
	if !strings.Contains(message, "1마리는 불러오지 못했어요") {
		t.Fatalf("expected dropped-count note, got %q", message)
	}
}

func TestListCommandTotalFailureIsRetryable(t *testing.T) {
	dexClient := &fakeDexClient{listErr: fmt.Errorf("upstream down")}

	deps, rec := newTestDeps()
	deps.Dex = dexClient

	cmd := NewListCommand(deps)
	if err := cmd.Execute(context.Background(), testContext(), map[string]any{"page": 1}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(rec.messages) != 0 {
		t.Fatalf("expected no page output on total failure, got %v", rec.messages)
	}
	if len(rec.errors) != 1 || !strings.Contains(rec.errors[0], "잠시 후 다시 시도해주세요") {
		t.Fatalf("expected one retryable error message, got %v", rec.errors)
	}
}

func TestListCommandAllDetailsFailed(t *testing.T) {
	refs := listRefs()
	failIDs := make(map[int]error, len(refs))
	for _, ref := range refs {
		failIDs[ref.ID] = fmt.Errorf("detail fetch failed")
	}

	dexClient := &fakeDexClient{refs: refs, total: 151, failIDs: failIDs}

	deps, rec := newTestDeps()
	deps.Dex = dexClient

	cmd := NewListCommand(deps)
	if err := cmd.Execute(context.Background(), testContext(), map[string]any{"page": 1}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(rec.messages) != 1 || !strings.Contains(rec.messages[0], "잠시 후 다시 시도해주세요") {
		t.Fatalf("expected retryable error when every entry failed, got %v", rec.messages)
	}
}

func TestListCommandPageOutOfRange(t *testing.T) {
	dexClient := &fakeDexClient{refs: nil, total: 151}

	deps, rec := newTestDeps()
	deps.Dex = dexClient

	cmd := NewListCommand(deps)
	if err := cmd.Execute(context.Background(), testContext(), map[string]any{"page": 99}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(rec.errors) != 1 || !strings.Contains(rec.errors[0], "페이지 범위를 벗어났어요") {
		t.Fatalf("expected out-of-range notice, got %v", rec.errors)
	}
}

func TestListCommandClampsPageParam(t *testing.T) {
	dexClient := &fakeDexClient{refs: listRefs(), total: 151}

	deps, rec := newTestDeps()
	deps.Dex = dexClient

	cmd := NewListCommand(deps)
	if err := cmd.Execute(context.Background(), testContext(), map[string]any{"page": "-3"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(rec.messages) != 1 || !strings.Contains(rec.messages[0], "(1/") {
		t.Fatalf("expected page clamped to 1, got %v", rec.messages)
	}
}
