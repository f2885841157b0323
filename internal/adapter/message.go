package adapter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kapu/pokedex-kakao-bot-go/internal/constants"
	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"github.com/kapu/pokedex-kakao-bot-go/internal/iris"
	"github.com/kapu/pokedex-kakao-bot-go/internal/util"
)

var controlCharsPattern = regexp.MustCompile(`[\x00-\x1F\x7F]`)
var whitespacePattern = regexp.MustCompile(`\s+`)

// MessageAdapter converts KakaoTalk messages to bot commands
type MessageAdapter struct {
	prefix string
}

// NewMessageAdapter creates a new MessageAdapter
func NewMessageAdapter(prefix string) *MessageAdapter {
	return &MessageAdapter{prefix: prefix}
}

// ParsedCommand represents a parsed command
type ParsedCommand struct {
	Type       domain.CommandType
	Params     map[string]any
	RawMessage string
}

// ParseMessage parses a KakaoTalk message into a command
func (ma *MessageAdapter) ParseMessage(message *iris.Message) *ParsedCommand {
	if message == nil || message.Msg == "" {
		return ma.createUnknownCommand("")
	}

	text := strings.TrimSpace(message.Msg)

	if !strings.HasPrefix(text, ma.prefix) {
		return ma.createUnknownCommand(text)
	}

	commandText := strings.TrimSpace(text[len(ma.prefix):])

	parts := strings.Fields(commandText)
	if len(parts) == 0 {
		return ma.createUnknownCommand(text)
	}

	// NFC so "퀴즈" typed on macOS matches the composed alias list.
	command := util.Normalize(parts[0])
	args := parts[1:]

	if ma.isHelpCommand(command) {
		return &ParsedCommand{
			Type:       domain.CommandHelp,
			Params:     make(map[string]any),
			RawMessage: text,
		}
	}

	// Collection aliases include "내도감"; check before the dex aliases so
	// "도감" stays the detail command.
	if ma.isCollectionCommand(command) {
		return &ParsedCommand{
			Type:       domain.CommandCollection,
			Params:     make(map[string]any),
			RawMessage: text,
		}
	}

	if ma.isListCommand(command) {
		return &ParsedCommand{
			Type:       domain.CommandList,
			Params:     ma.parseListArgs(args),
			RawMessage: text,
		}
	}

	if ma.isDexCommand(command) {
		return &ParsedCommand{
			Type:       domain.CommandDex,
			Params:     ma.parseNameArg(args),
			RawMessage: text,
		}
	}

	if ma.isCatchCommand(command) {
		return &ParsedCommand{
			Type:       domain.CommandCatch,
			Params:     ma.parseNameArg(args),
			RawMessage: text,
		}
	}

	if ma.isQuizCommand(command) {
		return &ParsedCommand{
			Type:       domain.CommandQuiz,
			Params:     make(map[string]any),
			RawMessage: text,
		}
	}

	if ma.isAnswerCommand(command) {
		params := make(map[string]any)
		if guess := strings.TrimSpace(strings.Join(args, " ")); guess != "" {
			params["guess"] = guess
		}
		return &ParsedCommand{
			Type:       domain.CommandAnswer,
			Params:     params,
			RawMessage: text,
		}
	}

	if ma.isSearchCommand(command) {
		return &ParsedCommand{
			Type:       domain.CommandSearch,
			Params:     ma.parseNameArg(args),
			RawMessage: text,
		}
	}

	if ma.isRankingCommand(command) {
		return &ParsedCommand{
			Type:       domain.CommandRanking,
			Params:     make(map[string]any),
			RawMessage: text,
		}
	}

	if ma.isAskCommand(command) {
		question := ma.sanitizeForAI(strings.Join(args, " "))
		if question == "" {
			return ma.createUnknownCommand(text)
		}
		return &ParsedCommand{
			Type:       domain.CommandAsk,
			Params:     map[string]any{"question": question},
			RawMessage: text,
		}
	}

	// Everything else behind the prefix goes to natural language parsing.
	sanitized := ma.sanitizeForAI(commandText)
	if sanitized == "" {
		return ma.createUnknownCommand(text)
	}

	return &ParsedCommand{
		Type:       domain.CommandAsk,
		Params:     map[string]any{"question": sanitized},
		RawMessage: text,
	}
}

// Command matchers

func (ma *MessageAdapter) isHelpCommand(cmd string) bool {
	return util.Contains([]string{"도움말", "도움", "help", "명령어", "commands"}, cmd)
}

func (ma *MessageAdapter) isDexCommand(cmd string) bool {
	return util.Contains([]string{"도감", "포켓몬", "dex", "pokedex", "정보", "info"}, cmd)
}

func (ma *MessageAdapter) isListCommand(cmd string) bool {
	return util.Contains([]string{"목록", "리스트", "list"}, cmd)
}

func (ma *MessageAdapter) isCatchCommand(cmd string) bool {
	return util.Contains([]string{"잡기", "잡아", "포획", "catch"}, cmd)
}

func (ma *MessageAdapter) isCollectionCommand(cmd string) bool {
	return util.Contains([]string{"컬렉션", "내도감", "collection"}, cmd)
}

func (ma *MessageAdapter) isQuizCommand(cmd string) bool {
	return util.Contains([]string{"퀴즈", "quiz", "맞추기"}, cmd)
}

func (ma *MessageAdapter) isAnswerCommand(cmd string) bool {
	return util.Contains([]string{"정답", "답", "answer"}, cmd)
}

func (ma *MessageAdapter) isSearchCommand(cmd string) bool {
	return util.Contains([]string{"검색", "찾기", "search"}, cmd)
}

func (ma *MessageAdapter) isRankingCommand(cmd string) bool {
	return util.Contains([]string{"순위", "랭킹", "ranking", "rank"}, cmd)
}

func (ma *MessageAdapter) isAskCommand(cmd string) bool {
	return util.Contains([]string{"질문", "물어봐", "ask"}, cmd)
}

// Argument parsers

func (ma *MessageAdapter) parseNameArg(args []string) map[string]any {
	params := make(map[string]any)
	if name := strings.TrimSpace(strings.Join(args, " ")); name != "" {
		params["name"] = name
	}
	return params
}

func (ma *MessageAdapter) parseListArgs(args []string) map[string]any {
	if len(args) == 0 {
		return map[string]any{"page": 1}
	}

	page, err := strconv.Atoi(strings.TrimSuffix(args[0], "페이지"))
	if err != nil || page < 1 {
		page = 1
	}

	return map[string]any{"page": page}
}

func (ma *MessageAdapter) createUnknownCommand(text string) *ParsedCommand {
	return &ParsedCommand{
		Type:       domain.CommandUnknown,
		Params:     make(map[string]any),
		RawMessage: text,
	}
}

func (ma *MessageAdapter) sanitizeForAI(input string) string {
	withoutControl := controlCharsPattern.ReplaceAllString(input, " ")
	normalized := strings.TrimSpace(whitespacePattern.ReplaceAllString(withoutControl, " "))

	if len(normalized) == 0 {
		return ""
	}

	if len(normalized) > constants.AIInputLimits.MaxQueryLength {
		return normalized[:constants.AIInputLimits.MaxQueryLength]
	}

	return normalized
}
