package smoketest

import "time"

// Config holds configuration for the relay smoke test
type Config struct {
	BaseURL    string        // Base URL of the service
	NumBoards  int           // Number of boards to generate
	Full       bool          // Run the full-report pipeline instead of quick analysis
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for generated PBN records
	LogFile    string        // Log file for test output
	Verbose    bool          // Enable verbose logging
}

// Deal is a generated board together with its PBN rendering
type Deal struct {
	ID      string // unique tag stamped into the Event header
	Dealer  string
	Vuln    string
	Hands   [4]string // N, E, S, W in suit.suit.suit.suit form
	Auction []string
	PBN     string
}

// BoardRecord mirrors the board object inside parse and analyze responses
type BoardRecord struct {
	Dealer  string    `json:"dealer"`
	Vuln    [2]bool   `json:"vuln"`
	Hands   [4]string `json:"hands"`
	Auction []string  `json:"auction"`
	Play    []string  `json:"play"`
	Event   string    `json:"event"`
}

// MomentRecord mirrors a key moment inside analyze responses
type MomentRecord struct {
	Type     string  `json:"type"`
	Trick    int     `json:"trick"`
	IMPCost  float64 `json:"imp_cost"`
	Severity string  `json:"severity"`
}

// ParseResponse is the wire shape of POST /api/parse/pbn
type ParseResponse struct {
	Success  bool        `json:"success"`
	Board    BoardRecord `json:"board"`
	Warnings []string    `json:"warnings"`
	Error    string      `json:"error"`
}

// AnalyzeResponse is the wire shape of the quick and full analyze endpoints
type AnalyzeResponse struct {
	Success       bool           `json:"success"`
	Board         BoardRecord    `json:"board"`
	KeyMoments    []MomentRecord `json:"key_moments"`
	Report        string         `json:"report"`
	BenAvailable  bool           `json:"ben_available"`
	TotalMistakes int            `json:"total_mistakes"`
	TotalIMPCost  float64        `json:"total_imp_cost"`
	Error         string         `json:"error"`
}

// HealthResponse is the wire shape of GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	EngineURL bool   `json:"ben_url"`
	GeminiKey bool   `json:"gemini_key"`
}

// Stats holds test statistics
type Stats struct {
	BoardsGenerated  int
	BoardsParsed     int
	ParseFailures    int
	BoardsAnalyzed   int
	AnalyzeFailures  int
	EngineAvailable  int
	MomentsExtracted int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
