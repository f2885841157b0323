// Package prompt builds the text prompts sent to the AI providers.
package prompt

import "fmt"

// ParserPromptVars holds variables for the parser prompt template
type ParserPromptVars struct {
	CommandPrefix string
	UserQuery     string
}

// BuildParserPrompt builds the natural language parser prompt. The model
// maps a free-form Korean or English question onto one bot command.
func BuildParserPrompt(vars ParserPromptVars) string {
	return fmt.Sprintf(`You are a natural language parser for a Korean Pokédex KakaoTalk bot.
Parse the user's query (Korean/English) and convert it to the matching bot command.

## Available Commands:

1. **dex** <name> - Pokédex entry for one Pokémon (e.g., "피카츄 알려줘", "리자몽 능력치")
2. **list** [page=1] - Browse the Pokédex by page (e.g., "포켓몬 목록", "도감 2페이지")
3. **catch** <name> - Try to catch a Pokémon (e.g., "이상해씨 잡아줘", "뮤츠 잡기")
4. **collection** - Show the user's caught Pokémon (e.g., "내 도감", "내가 잡은 포켓몬")
5. **quiz** - Start a "who's that Pokémon" quiz (e.g., "퀴즈 내줘", "포켓몬 맞추기")
6. **answer** <guess> - Answer the running quiz (e.g., "정답은 2번", "정답 파이리")
7. **search** <name> - Search Pokémon by partial name (e.g., "리자 들어가는 포켓몬 검색")
8. **ranking** - Room catch leaderboard (e.g., "순위 보여줘", "누가 제일 많이 잡았어")
9. **help** - Usage help (e.g., "도움말", "사용법")
10. **unknown** - Cannot determine

## User Query:
"%s"

## Response Format (JSON ONLY):

{
  "command": "dex|list|catch|collection|quiz|answer|search|ranking|help|unknown",
  "params": {
    "name": "Pokémon name exactly as the user wrote it (Korean or English, for dex/catch/search)",
    "page": number (for list),
    "guess": "the user's quiz answer text or choice number (for answer)"
  },
  "confidence": 0.0-1.0,
  "reasoning": "Brief explanation (max 10 words)"
}

**Rules**:
- Keep the Pokémon name in params.name untranslated; the bot resolves Korean and English names itself
- A bare Pokémon name with no verb means **dex** (e.g., "피카츄?")
- Catch intent words: "잡아", "잡기", "잡아줘", "포획", "catch"
- Collection intent words: "내 도감", "컬렉션", "잡은", "모은"
- Quiz answer only counts as **answer** when a quiz context is implied ("정답", "답은")
- Strip particles from names: "피카츄를 잡아줘" → name "피카츄"
- Commands are also reachable directly with the "%s" prefix; do not include the prefix in params
- Confidence: >0.9 (certain), 0.5-0.9 (moderate), <0.5 (uncertain)
- When no command fits, return command: "unknown"`,
		vars.UserQuery,
		vars.CommandPrefix,
	)
}
