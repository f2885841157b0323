package domain

type CommandType string

const (
	CommandHelp       CommandType = "help"
	CommandDex        CommandType = "dex"
	CommandList       CommandType = "list"
	CommandCatch      CommandType = "catch"
	CommandCollection CommandType = "collection"
	CommandQuiz       CommandType = "quiz"
	CommandAnswer     CommandType = "answer"
	CommandSearch     CommandType = "search"
	CommandRanking    CommandType = "ranking"
	CommandAsk        CommandType = "ask"
	CommandUnknown    CommandType = "unknown"
)

func (c CommandType) String() string {
	return string(c)
}

func (c CommandType) IsValid() bool {
	switch c {
	case CommandHelp, CommandDex, CommandList, CommandCatch, CommandCollection,
		CommandQuiz, CommandAnswer, CommandSearch, CommandRanking, CommandAsk,
		CommandUnknown:
		return true
	default:
		return false
	}
}

// ParseResult is the structured output of the natural-language parser.
type ParseResult struct {
	Command    CommandType    `json:"command"`
	Params     map[string]any `json:"params"`
	Confidence float64        `json:"confidence"`
	Reasoning  string         `json:"reasoning"`
}
