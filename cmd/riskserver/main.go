package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tradeops/riskgate/cmd/common"
	"github.com/tradeops/riskgate/internal/config"
	"github.com/tradeops/riskgate/internal/journal"
	"github.com/tradeops/riskgate/internal/logger"
	"github.com/tradeops/riskgate/internal/monitoring"
	"github.com/tradeops/riskgate/internal/notifications"
	"github.com/tradeops/riskgate/internal/riskcheck"
	"github.com/tradeops/riskgate/pkg/types"
)

const (
	appName         = "riskserver"
	notifyTimeout   = 10 * time.Second
	shutdownTimeout = 30 * time.Second
	maxHistoryLimit = 500
)

// Server bundles the HTTP handlers with their collaborators.
type Server struct {
	pipeline *riskcheck.Pipeline
	journal  *journal.SQLite // nil when journaling is disabled
	notifier notifications.Notifier
	health   *monitoring.HealthChecker
	log      zerolog.Logger
}

func main() {
	configFile := flag.String("config", "", "Path to configuration file (JSON or YAML)")
	addr := flag.String("addr", "", "Listen address override (e.g. :8080)")
	envFile := flag.String("env", ".env", "Environment file path")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		common.PrintVersion(appName)
		return
	}

	if *envFile != "" {
		_ = godotenv.Load(*envFile)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger.Setup(cfg.LogLevel, cfg.Environment == "development")
	log := logger.Component("riskserver")
	log.Info().
		Str("version", common.GetFullVersion()).
		Str("environment", cfg.Environment).
		Str("addr", cfg.Server.Addr).
		Msg("starting risk server")

	pipeCfg, err := cfg.PipelineConfig()
	if err != nil {
		log.Error().Err(err).Msg("invalid risk configuration")
		os.Exit(1)
	}

	deps := common.BuildDeps(cfg, log)

	j, err := common.OpenJournal(cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to open journal")
		os.Exit(1)
	}

	health := monitoring.NewHealthChecker()
	health.SetConnected(deps.Account != nil)

	srv := &Server{
		pipeline: riskcheck.NewPipeline(deps, pipeCfg),
		journal:  j,
		notifier: common.BuildNotifier(cfg, log),
		health:   health,
		log:      log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/risk-check", srv.handleRiskCheck)
	mux.HandleFunc("/api/v1/history", srv.handleHistory)
	mux.Handle("/healthz", health)
	mux.Handle("/metrics", monitoring.NewMetricsHandler())

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("http server error")
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	if j != nil {
		if err := j.Close(); err != nil {
			log.Warn().Err(err).Msg("journal close error")
		}
	}

	log.Info().Msg("stopped")
}

// handleRiskCheck vets one proposed trade. The response is always a full
// RiskCheckResult; only malformed requests produce an error status.
func (s *Server) handleRiskCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}

	var input types.RiskCheckInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	input.Symbol = strings.ToUpper(strings.TrimSpace(input.Symbol))

	result := s.pipeline.ExecuteRiskCheck(r.Context(), input)
	s.health.MarkCheck()

	if s.journal != nil {
		if _, err := s.journal.Record(input, result); err != nil {
			s.log.Warn().Err(err).Msg("failed to record decision")
			s.health.AddError("journal: " + err.Error())
		}
	}

	// Alert delivery must not hold up the response.
	go s.notify(input, result)

	writeJSON(w, http.StatusOK, result)
}

// handleHistory returns recorded decisions, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}
	if s.journal == nil {
		writeError(w, http.StatusNotFound, "journal is disabled")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if parsed > maxHistoryLimit {
			parsed = maxHistoryLimit
		}
		limit = parsed
	}

	var (
		entries []journal.Entry
		err     error
	)
	if symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol"))); symbol != "" {
		entries, err = s.journal.BySymbol(symbol, limit)
	} else {
		entries, err = s.journal.Recent(limit)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("journal read failed")
		writeError(w, http.StatusInternalServerError, "journal read failed")
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) notify(input types.RiskCheckInput, result *types.RiskCheckResult) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := s.notifier.NotifyDecision(ctx, input, result); err != nil {
		s.log.Warn().Err(err).Msg("decision notification failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
