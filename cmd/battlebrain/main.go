// Command battlebrain reads newline-delimited decision requests, runs one
// agent per battle, and writes the chosen action plus its decision trace as
// JSON lines. It stands in for the protocol collaborator during development
// and replays.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"battlebrain/internal/bot"
	"battlebrain/internal/bot/brain"
	"battlebrain/internal/config"
	"battlebrain/internal/domain"
	"battlebrain/internal/telemetry"
	"battlebrain/internal/usage"
)

const version = "0.3.0"

// request is one decision to make: the battle it belongs to, the snapshot,
// and any evidence the collaborator derived since the previous turn.
type request struct {
	BattleID string           `json:"battle_id"`
	Snapshot *domain.Snapshot `json:"snapshot"`
	Evidence []brain.Evidence `json:"evidence,omitempty"`
}

// response pairs the chosen action with its trace.
type response struct {
	BattleID    string        `json:"battle_id"`
	Turn        int           `json:"turn"`
	Action      domain.Action `json:"action"`
	Description string        `json:"description"`
	Trace       *bot.Trace    `json:"trace"`
	Error       string        `json:"error,omitempty"`
}

func main() {
	configPath := flag.String("config", "", "path to JSON config (optional)")
	inputPath := flag.String("input", "-", "decision request file, - for stdin")
	flag.Parse()

	_ = godotenv.Load()

	if err := run(*configPath, *inputPath); err != nil {
		fmt.Fprintln(os.Stderr, "battlebrain:", err)
		os.Exit(1)
	}
}

func run(configPath, inputPath string) error {
	if err := config.Init(configPath); err != nil {
		return err
	}
	cfg := config.Get()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, "battlebrain", version, cfg.OTELInsecure)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}()

	pop, closePop, err := openPopulation(cfg, logger)
	if err != nil {
		return err
	}
	defer closePop()

	var advisor bot.Advisor = bot.NoopAdvisor{}
	if cfg.AdvisorURL != "" {
		advisor = bot.NewHTTPAdvisor(cfg.AdvisorURL, time.Duration(cfg.AdvisorTimeoutMillis)*time.Millisecond)
	}
	engine := bot.NewEngine(tuningFromConfig(cfg), logger, advisor)

	in, closeIn, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer closeIn()

	return process(ctx, in, os.Stdout, engine, pop, logger)
}

// process fans requests out one goroutine per battle. Decisions within a
// battle stay strictly ordered through the battle's own channel; battles run
// independently.
func process(ctx context.Context, in io.Reader, out io.Writer, engine *bot.Engine, pop usage.Store, logger *slog.Logger) error {
	var (
		writeMu sync.Mutex
		enc     = json.NewEncoder(out)
	)
	emit := func(resp response) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return enc.Encode(resp)
	}

	g, ctx := errgroup.WithContext(ctx)
	battles := make(map[string]chan request)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			logger.Warn("skipping malformed request", "error", err)
			continue
		}
		if req.Snapshot == nil {
			logger.Warn("skipping request without snapshot", "battle_id", req.BattleID)
			continue
		}
		if req.BattleID != "" {
			req.Snapshot.BattleID = req.BattleID
		}

		ch, ok := battles[req.BattleID]
		if !ok {
			ch = make(chan request, 16)
			battles[req.BattleID] = ch
			agent := bot.NewAgent(req.BattleID, engine, pop, logger)
			g.Go(func() error {
				return runBattle(ctx, agent, ch, emit)
			})
		}
		select {
		case ch <- req:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	for _, ch := range battles {
		close(ch)
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return scanner.Err()
}

func runBattle(ctx context.Context, agent *bot.Agent, requests <-chan request, emit func(response) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req, ok := <-requests:
			if !ok {
				return nil
			}
			action, tr, err := agent.Decide(ctx, req.Snapshot, req.Evidence)
			resp := response{
				BattleID:    agent.BattleID,
				Turn:        req.Snapshot.Turn,
				Action:      action,
				Description: domain.DescribeAction(req.Snapshot, action),
				Trace:       tr,
			}
			if err != nil {
				resp.Error = err.Error()
			}
			if err := emit(resp); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}
	}
}

func openPopulation(cfg *config.Config, logger *slog.Logger) (usage.Store, func(), error) {
	switch {
	case cfg.UsageDB != "":
		store, err := usage.OpenSQLite(cfg.UsageDB)
		if err != nil {
			return nil, nil, fmt.Errorf("open usage db: %w", err)
		}
		logger.Info("reference population loaded", "source", "sqlite", "path", cfg.UsageDB)
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("close usage db", "error", err)
			}
		}, nil
	case cfg.UsagePath != "":
		pop, err := usage.LoadPopulation(cfg.UsagePath)
		if err != nil {
			return nil, nil, fmt.Errorf("load usage file: %w", err)
		}
		logger.Info("reference population loaded", "source", "json", "path", cfg.UsagePath)
		return pop, func() {}, nil
	default:
		logger.Info("reference population loaded", "source", "builtin")
		return usage.Builtin(), func() {}, nil
	}
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func tuningFromConfig(cfg *config.Config) bot.Tuning {
	t := bot.DefaultTuning
	t.DecisionBudget = time.Duration(cfg.DecisionBudgetMillis) * time.Millisecond
	if len(cfg.ForcedThresholds) > 0 {
		t.ForcedThresholds = cfg.ForcedThresholds
	}
	t.EndgameMaxRoster = cfg.EndgameMaxRoster
	t.ClarityGap = cfg.ClarityGap
	t.RerankSafetyMargin = time.Duration(cfg.RerankSafetyMillis) * time.Millisecond
	t.RerankTopK = cfg.RerankTopK
	return t
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
