package adapter

import (
	"fmt"
	"strings"

	"github.com/kapu/pokedex-kakao-bot-go/internal/constants"
	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"github.com/kapu/pokedex-kakao-bot-go/internal/util"
)

// ResponseFormatter formats bot responses
type ResponseFormatter struct {
	prefix string
}

// NewResponseFormatter creates a new ResponseFormatter
func NewResponseFormatter(prefix string) *ResponseFormatter {
	if strings.TrimSpace(prefix) == "" {
		prefix = "!"
	}
	return &ResponseFormatter{prefix: prefix}
}

// FormatCreatureDetail formats one Pokédex entry
func (f *ResponseFormatter) FormatCreatureDetail(creature *domain.Creature, powerScore int, catchChance float64) string {
	if creature == nil {
		return "❌ 포켓몬 정보를 찾을 수 없습니다."
	}

	var sb strings.Builder

	name := util.TruncateString(creature.DisplayName(), constants.StringLimits.CreatureName)
	sb.WriteString(fmt.Sprintf("📘 No.%04d %s", creature.ID, name))
	if creature.KoreanName != "" && creature.Name != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", creature.Name))
	}
	sb.WriteString("\n\n")

	if len(creature.Types) > 0 {
		typeNames := make([]string, 0, len(creature.Types))
		for _, t := range creature.Types {
			typeNames = append(typeNames, domain.TypeNameKo(t))
		}
		sb.WriteString(fmt.Sprintf("🏷️ 타입: %s\n", strings.Join(typeNames, " / ")))
	}

	if len(creature.Abilities) > 0 {
		abilities := strings.Join(creature.Abilities, ", ")
		sb.WriteString(fmt.Sprintf("✨ 특성: %s\n", util.TruncateString(abilities, constants.StringLimits.AbilityList)))
	}

	sb.WriteString(fmt.Sprintf("📏 키 %.1fm · 몸무게 %.1fkg\n", creature.HeightMeters(), creature.WeightKg()))

	if len(creature.Stats) > 0 {
		sb.WriteString("\n📊 종족값\n")
		total := 0
		for _, stat := range creature.Stats {
			sb.WriteString(fmt.Sprintf("  %s %d\n", domain.StatNameKo(stat.Name), stat.Base))
			total += stat.Base
		}
		sb.WriteString(fmt.Sprintf("  합계 %d\n", total))
	}

	sb.WriteString(fmt.Sprintf("\n💪 전투력 %d/100\n", powerScore))
	sb.WriteString(fmt.Sprintf("🎯 포획 확률 %.0f%%\n", catchChance))

	if len(creature.Moves) > 0 {
		moves := strings.Join(creature.Moves, ", ")
		sb.WriteString(fmt.Sprintf("\n🎮 기술: %s\n", util.TruncateString(moves, constants.StringLimits.MoveList)))
	}

	sb.WriteString(fmt.Sprintf("\n💡 %s잡기 %s 로 포획에 도전해보세요!", f.prefix, creature.DisplayName()))

	return sb.String()
}

// FormatCatchResult formats a catch attempt outcome
func (f *ResponseFormatter) FormatCatchResult(creature *domain.Creature, chance float64, success, isNew bool) string {
	name := creature.DisplayName()

	if !success {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("💨 앗! %s%s 도망갔어요...\n\n", name, subjectParticle(name)))
		sb.WriteString(fmt.Sprintf("🎯 포획 확률: %.0f%%\n", chance))
		sb.WriteString("다시 도전해보세요!")
		return sb.String()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎉 잡았다! %s GET!\n\n", name))
	sb.WriteString(fmt.Sprintf("🎯 포획 확률: %.0f%%\n", chance))

	if isNew {
		sb.WriteString("✨ NEW! 도감에 새로 등록되었어요.\n")
		sb.WriteString(fmt.Sprintf("📦 %s컬렉션 으로 확인해보세요.", f.prefix))
	} else {
		sb.WriteString("이미 도감에 있는 포켓몬이에요.")
	}

	return sb.String()
}

// FormatCollection formats a user's caught list
func (f *ResponseFormatter) FormatCollection(sender string, records []domain.CaughtRecord, stats domain.CollectorStats) string {
	if len(records) == 0 {
		return fmt.Sprintf("📦 아직 잡은 포켓몬이 없어요.\n\n💡 사용법:\n%s잡기 [이름]\n예) %s잡기 피카츄", f.prefix, f.prefix)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📦 %s님의 도감 (%d마리)\n\n", sender, len(records)))

	for i, record := range records {
		sb.WriteString(fmt.Sprintf("%d. No.%04d %s\n", i+1, record.ID, record.Name))
	}

	if stats.Attempts > 0 {
		rate := float64(stats.Successes) / float64(stats.Attempts) * 100
		sb.WriteString(fmt.Sprintf("\n🎯 포획 시도 %d회 · 성공률 %.0f%%", stats.Attempts, rate))
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// FormatQuizRound formats the quiz question
func (f *ResponseFormatter) FormatQuizRound(round *domain.QuizRound) string {
	var sb strings.Builder
	sb.WriteString("🎲 포켓몬 퀴즈!\n")
	sb.WriteString("이 포켓몬은 누구일까요?\n\n")

	for i, choice := range round.Choices {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, choice.DisplayName()))
	}

	seconds := int(constants.QuizConfig.RoundTTL.Seconds())
	sb.WriteString(fmt.Sprintf("\n💡 %s정답 [번호 또는 이름] · %d초 안에 맞춰보세요!", f.prefix, seconds))

	return sb.String()
}

// FormatQuizAlreadyRunning formats the duplicate-start notice
func (f *ResponseFormatter) FormatQuizAlreadyRunning(round *domain.QuizRound) string {
	var sb strings.Builder
	sb.WriteString("ℹ️ 이미 진행 중인 퀴즈가 있어요.\n\n")

	for i, choice := range round.Choices {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, choice.DisplayName()))
	}

	sb.WriteString(fmt.Sprintf("\n💡 %s정답 [번호 또는 이름] 으로 답해주세요.", f.prefix))
	return sb.String()
}

// FormatQuizCorrect formats a winning answer
func (f *ResponseFormatter) FormatQuizCorrect(sender string, answer domain.CreatureRef) string {
	return fmt.Sprintf("🎉 정답! %s님이 맞췄어요.\n정답은 No.%04d %s 였습니다!", sender, answer.ID, answer.DisplayName())
}

// FormatQuizWrong formats a losing answer and reveals the creature
func (f *ResponseFormatter) FormatQuizWrong(answer domain.CreatureRef) string {
	return fmt.Sprintf("😢 아쉽네요, 오답이에요.\n정답은 No.%04d %s 였습니다.", answer.ID, answer.DisplayName())
}

// FormatQuizUnmatchedGuess formats a guess that named no choice
func (f *ResponseFormatter) FormatQuizUnmatchedGuess(choiceCount int) string {
	return fmt.Sprintf("❓ 보기에 없는 답이에요. 1~%d 번호나 보기의 이름으로 답해주세요.", choiceCount)
}

// FormatQuizNoRound formats the no-active-quiz notice
func (f *ResponseFormatter) FormatQuizNoRound() string {
	return fmt.Sprintf("ℹ️ 진행 중인 퀴즈가 없어요.\n%s퀴즈 로 새 퀴즈를 시작해보세요!", f.prefix)
}

// FormatCreaturePage formats one listing page
func (f *ResponseFormatter) FormatCreaturePage(creatures []*domain.Creature, page, totalPages, total, failed int) string {
	if len(creatures) == 0 {
		return "📖 표시할 포켓몬이 없습니다."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📖 포켓몬 도감 (%d/%d 페이지, 총 %d마리)\n\n", page, totalPages, total))

	for _, creature := range creatures {
		typeNames := make([]string, 0, len(creature.Types))
		for _, t := range creature.Types {
			typeNames = append(typeNames, domain.TypeNameKo(t))
		}

		sb.WriteString(fmt.Sprintf("No.%04d %s", creature.ID, creature.DisplayName()))
		if len(typeNames) > 0 {
			sb.WriteString(fmt.Sprintf(" · %s", strings.Join(typeNames, "/")))
		}
		sb.WriteString("\n")
	}

	if failed > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠️ %d마리는 불러오지 못했어요.", failed))
	}

	if page < totalPages {
		sb.WriteString(fmt.Sprintf("\n💡 %s목록 %d 로 다음 페이지", f.prefix, page+1))
	}

	return strings.TrimSpace(sb.String())
}

// FormatSearchResults formats name search hits
func (f *ResponseFormatter) FormatSearchResults(query string, refs []domain.CreatureRef) string {
	if len(refs) == 0 {
		return fmt.Sprintf("🔍 '%s' 이름이 들어간 포켓몬을 찾지 못했어요.", query)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔍 '%s' 검색 결과 (%d마리)\n\n", query, len(refs)))

	for i, ref := range refs {
		sb.WriteString(fmt.Sprintf("%d. No.%04d %s\n", i+1, ref.ID, ref.DisplayName()))
	}

	sb.WriteString(fmt.Sprintf("\n💡 %s도감 [이름] 으로 자세히 볼 수 있어요.", f.prefix))
	return sb.String()
}

// FormatRanking formats the room leaderboard
func (f *ResponseFormatter) FormatRanking(ranks []domain.CollectorRank) string {
	if len(ranks) == 0 {
		return fmt.Sprintf("🏆 아직 포획 기록이 없어요.\n%s잡기 [이름] 으로 첫 기록을 남겨보세요!", f.prefix)
	}

	medals := []string{"🥇", "🥈", "🥉"}

	var sb strings.Builder
	sb.WriteString("🏆 포켓몬 마스터 순위\n\n")

	for i, rank := range ranks {
		marker := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			marker = medals[i]
		}
		sb.WriteString(fmt.Sprintf("%s %s - %d마리 (시도 %d회)\n", marker, rank.Sender, rank.Caught, rank.Attempts))
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// FormatNotFound formats a failed lookup, with suggestions when available
func (f *ResponseFormatter) FormatNotFound(query string, suggestions []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("❌ '%s'%s 찾을 수 없어요.", query, objectParticle(query)))

	if len(suggestions) > 0 {
		sb.WriteString("\n\n혹시 이 포켓몬인가요?\n")
		for _, s := range suggestions {
			sb.WriteString(fmt.Sprintf("- %s\n", s))
		}
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// FormatInsufficientPool formats the quiz abort when the pool is too small
func (f *ResponseFormatter) FormatInsufficientPool(need, have int) string {
	return fmt.Sprintf("❌ 퀴즈를 내기엔 포켓몬이 부족해요. (필요 %d, 현재 %d)", need, have)
}

// FormatHelp formats help message
func (f *ResponseFormatter) FormatHelp() string {
	p := f.prefix
	return fmt.Sprintf(`🐾 포켓몬 도감 카카오톡 봇

📖 도감 조회
  %s도감 [이름/번호] - 포켓몬 상세 정보
  %s목록 [페이지] - 도감 목록 보기
  %s검색 [이름] - 이름으로 검색

🎯 포획 놀이
  %s잡기 [이름] - 포획 도전
  %s컬렉션 - 내가 잡은 포켓몬
  %s순위 - 방 포획 순위

🎲 퀴즈
  %s퀴즈 - 포켓몬 맞추기 시작
  %s정답 [번호/이름] - 정답 제출

💬 자연어 지원
  예: "%s피카츄 알려줘", "%s리자몽 잡아줘"`, p, p, p, p, p, p, p, p, p, p)
}

// FormatUnknownRequest formats the fallback for questions the parser could
// not map to a command.
func (f *ResponseFormatter) FormatUnknownRequest() string {
	return fmt.Sprintf("❓ 요청을 이해하지 못했어요. %s도움말 명령어를 참고해주세요.", f.prefix)
}

// FormatError formats error message
func (f *ResponseFormatter) FormatError(message string) string {
	return fmt.Sprintf("❌ %s", message)
}

// FormatUpstreamError formats the retryable upstream failure notice
func (f *ResponseFormatter) FormatUpstreamError() string {
	return f.FormatError("도감 서버가 응답하지 않아요. 잠시 후 다시 시도해주세요.")
}

// subjectParticle picks 이/가 by the final jamo of the last Hangul
// syllable, combined form for non-Hangul names.
func subjectParticle(word string) string {
	switch hangulFinal(word) {
	case 1:
		return "이"
	case 0:
		return "가"
	default:
		return "이(가)"
	}
}

// objectParticle picks 을/를 the same way.
func objectParticle(word string) string {
	switch hangulFinal(word) {
	case 1:
		return "을"
	case 0:
		return "를"
	default:
		return "을(를)"
	}
}

// hangulFinal reports whether the last rune has a final consonant:
// 1 yes, 0 no, -1 not Hangul.
func hangulFinal(word string) int {
	runes := []rune(strings.TrimSpace(word))
	if len(runes) == 0 {
		return -1
	}

	last := runes[len(runes)-1]
	if last < 0xAC00 || last > 0xD7A3 {
		return -1
	}

	if (last-0xAC00)%28 == 0 {
		return 0
	}
	return 1
}
