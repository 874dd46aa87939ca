package smoketest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/kibitz/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete relay smoke test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting relay smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("boards", config.NumBoards),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("full", config.Full),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	health, err := checkServiceHealth(ctx, config)
	if err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate boards
	deals, err := generateDeals(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("board generation failed: %w", err)
	}

	// Step 3: Round-trip every board through the parser
	if err := parseDeals(ctx, config, deals, stats); err != nil {
		return fmt.Errorf("parse verification failed: %w", err)
	}

	// Step 4: Reject a malformed record
	if err := checkMalformedRejected(ctx, config); err != nil {
		return fmt.Errorf("malformed-record check failed: %w", err)
	}

	// Step 5: Run boards through the analysis pipeline
	if err := analyzeDeals(ctx, config, deals, stats); err != nil {
		return fmt.Errorf("analysis verification failed: %w", err)
	}

	if stats.EngineAvailable == 0 && health.EngineURL {
		log.Println("⚠️  Engine is configured but no analysis used it")
	}

	// Step 6: Save generated records to file
	if err := saveDealsToFile(ctx, config, deals); err != nil {
		logger.Get().Warn(ctx, "failed to save generated records", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "smoke test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running and reports which
// collaborators it has configured.
func checkServiceHealth(ctx context.Context, config *Config) (HealthResponse, error) {
	logger.Get().Info(ctx, "checking service health")

	var health HealthResponse
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/health"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return health, fmt.Errorf("failed to connect to service: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return health, fmt.Errorf("failed to read health response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return health, fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &health); err != nil {
		return health, fmt.Errorf("failed to decode health response: %w", err)
	}

	logger.Get().Info(ctx, "service is healthy",
		logger.Any("engineConfigured", health.EngineURL),
		logger.Any("narratorConfigured", health.GeminiKey))
	return health, nil
}

// parseDeals posts each generated record to the parse endpoint and checks
// the round trip.
func parseDeals(ctx context.Context, config *Config, deals []Deal, stats *Stats) error {
	log.Printf("📋 Parsing %d boards...", len(deals))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/api/parse/pbn"

	for i, d := range deals {
		var resp ParseResponse
		status, err := postJSON(ctx, client, url, map[string]string{"pbn": d.PBN}, &resp)
		if err != nil {
			stats.ParseFailures++
			return fmt.Errorf("board %d: %w", i+1, err)
		}
		if status != StatusOK {
			stats.ParseFailures++
			return fmt.Errorf("board %d: unexpected status %d: %s", i+1, status, resp.Error)
		}
		if err := verifyParsedBoard(d, resp); err != nil {
			stats.ParseFailures++
			return fmt.Errorf("board %d: %w", i+1, err)
		}
		stats.BoardsParsed++
		if config.Verbose {
			log.Printf("   Board %d parsed: dealer %s, %d calls", i+1, resp.Board.Dealer, len(resp.Board.Auction))
		}
	}

	log.Printf("✅ Parsed %d boards", stats.BoardsParsed)
	return nil
}

// checkMalformedRejected verifies a record without hands gets a 400.
func checkMalformedRejected(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/api/parse/pbn"

	var resp ParseResponse
	status, err := postJSON(ctx, client, url, map[string]string{"pbn": "[Event \"No deal here\"]\n"}, &resp)
	if err != nil {
		return err
	}
	if status != StatusBadRequest {
		return fmt.Errorf("expected status %d for record without a deal, got %d", StatusBadRequest, status)
	}
	log.Println("✅ Malformed record rejected")
	return nil
}

// analyzeDeals runs each board through the quick or full pipeline and
// checks the moment invariants.
func analyzeDeals(ctx context.Context, config *Config, deals []Deal, stats *Stats) error {
	endpoint := "/api/analyze/quick"
	if config.Full {
		endpoint = "/api/analyze/pbn"
	}
	log.Printf("🔍 Analyzing %d boards via %s...", len(deals), endpoint)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + endpoint

	for i, d := range deals {
		var resp AnalyzeResponse
		status, err := postJSON(ctx, client, url, map[string]string{"pbn": d.PBN}, &resp)
		if err != nil {
			stats.AnalyzeFailures++
			return fmt.Errorf("board %d: %w", i+1, err)
		}
		if status != StatusOK {
			stats.AnalyzeFailures++
			return fmt.Errorf("board %d: unexpected status %d: %s", i+1, status, resp.Error)
		}
		if err := verifyAnalysis(resp); err != nil {
			stats.AnalyzeFailures++
			return fmt.Errorf("board %d: %w", i+1, err)
		}
		stats.BoardsAnalyzed++
		if resp.BenAvailable {
			stats.EngineAvailable++
			stats.MomentsExtracted += len(resp.KeyMoments)
		}
		if config.Verbose {
			displayMoments(resp)
		}
	}

	log.Printf("✅ Analyzed %d boards (%d with engine)", stats.BoardsAnalyzed, stats.EngineAvailable)
	return nil
}

// saveDealsToFile saves the generated PBN records to a single file.
func saveDealsToFile(ctx context.Context, config *Config, deals []Deal) error {
	if len(deals) == 0 {
		return fmt.Errorf("no boards to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_boards_" + timestamp + ".pbn"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	for i, d := range deals {
		if _, err := file.WriteString(d.PBN + "\n"); err != nil {
			return fmt.Errorf("failed to write board %d: %w", i+1, err)
		}
	}

	logger.Get().Info(ctx, "boards saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var parseRate float64
	if stats.BoardsGenerated > 0 {
		parseRate = float64(stats.BoardsParsed) / float64(stats.BoardsGenerated) * PercentageMultiplier
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("boardsGenerated", stats.BoardsGenerated),
		logger.Int("boardsParsed", stats.BoardsParsed),
		logger.Int("parseFailures", stats.ParseFailures),
		logger.Int("boardsAnalyzed", stats.BoardsAnalyzed),
		logger.Int("analyzeFailures", stats.AnalyzeFailures),
		logger.Int("engineAvailable", stats.EngineAvailable),
		logger.Int("momentsExtracted", stats.MomentsExtracted),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("parseRate", parseRate))
}
