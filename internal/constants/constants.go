package constants

import "time"

var CacheTTL = struct {
	Creature    time.Duration
	SpeciesName time.Duration
	RefPage     time.Duration
	RefPool     time.Duration
	Sprite      time.Duration
	MatchResult time.Duration
}{
	Creature:    24 * time.Hour,     // 24시간 - 도감 데이터는 사실상 정적
	SpeciesName: 7 * 24 * time.Hour, // 7일 - 한국어 이름 로컬라이징
	RefPage:     6 * time.Hour,      // 6시간 - 목록 페이지
	RefPool:     6 * time.Hour,      // 6시간 - 퀴즈 풀
	Sprite:      12 * time.Hour,     // 12시간 - 스프라이트 이미지 바이트
	MatchResult: 10 * time.Minute,   // 10분 - 이름 매칭 결과
}

var WebSocketConfig = struct {
	MaxReconnectAttempts int
	ReconnectDelay       time.Duration
}{
	MaxReconnectAttempts: 5,
	ReconnectDelay:       5 * time.Second,
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
}{
	ReadyTimeout: 5 * time.Second,
}

var AIInputLimits = struct {
	MaxQueryLength int
}{
	MaxQueryLength: 500,
}

var RetryConfig = struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      time.Duration
}{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
	Jitter:      250 * time.Millisecond,
}

var CircuitBreakerConfig = struct {
	FailureThreshold    int
	ResetTimeout        time.Duration
	RateLimitTimeout    time.Duration
	HealthCheckInterval time.Duration
	HealthCheckTimeout  time.Duration
}{
	FailureThreshold:    3,                // 3회 연속 실패 시 Circuit OPEN
	ResetTimeout:        30 * time.Second, // 기본 재시도 대기 시간 (30초)
	RateLimitTimeout:    1 * time.Hour,    // 429 Rate Limit 전용 타임아웃 (1시간)
	HealthCheckInterval: 10 * time.Minute, // Health Check 주기 (10분)
	HealthCheckTimeout:  10 * time.Second, // Health Check 타임아웃 (10초)
}

var APIConfig = struct {
	PokeAPIBaseURL string
	PokeAPITimeout time.Duration
	SpriteTimeout  time.Duration
	ScraperBaseURL string
	ScraperTimeout time.Duration
}{
	PokeAPIBaseURL: "https://pokeapi.co/api/v2",
	PokeAPITimeout: 10 * time.Second,
	SpriteTimeout:  15 * time.Second,
	ScraperBaseURL: "https://pokemonkorea.co.kr",
	ScraperTimeout: 15 * time.Second,
}

var DexConfig = struct {
	ListPageSize  int
	MaxMoves      int
	BatchWorkers  int
	QuizPoolLimit int
}{
	ListPageSize:  20,  // 페이지당 표시 수
	MaxMoves:      12,  // 상세 보기에 표시할 기술 수 상한
	BatchWorkers:  8,   // 병렬 상세 조회 goroutine 수
	QuizPoolLimit: 151, // 퀴즈 출제 범위 (관동 도감)
}

var QuizConfig = struct {
	ChoiceCount int
	RoundTTL    time.Duration
}{
	ChoiceCount: 4,
	RoundTTL:    90 * time.Second,
}

var StringLimits = struct {
	CreatureName int
	AbilityList  int
	MoveList     int
}{
	CreatureName: 40,
	AbilityList:  120,
	MoveList:     200,
}
