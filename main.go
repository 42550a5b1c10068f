package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"imagerank/config"
	"imagerank/database"
	"imagerank/history"
	"imagerank/logging"
	"imagerank/metrics"
	"imagerank/presenter"
	"imagerank/presenter/window"
	"imagerank/ratingfile"
	"imagerank/ratings"
	"imagerank/scanner"
	"imagerank/session"
	"imagerank/signalhandler"
	"imagerank/types"
	"imagerank/utils"

	"github.com/google/uuid"
)

// Exit statuses
const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

// ratingBackend is where the ratings table is persisted
type ratingBackend interface {
	Load() ([]types.ImageRecord, error)
	Save([]types.ImageRecord) error
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	// Parse command line arguments into a map
	args := utils.ParseArguments(argv)

	if _, ok := args["help"]; ok {
		utils.PrintUsage(os.Stdout)
		return exitOK
	}
	if arg, ok := args["unexpected"]; ok {
		fmt.Fprintf(os.Stderr, "Unexpected argument: %s\n", arg)
		utils.PrintUsage(os.Stderr)
		return exitUsage
	}

	// Setup debug logging if enabled
	if _, ok := args["debug"]; ok {
		logPath := "imagerank.log"
		if customLogPath, ok := args["logfile"]; ok && customLogPath != "" {
			logPath = customLogPath
		}
		if err := logging.SetupLogger(logPath); err != nil {
			fmt.Printf("Warning: Failed to setup logging: %v\n", err)
		} else {
			fmt.Printf("Debug mode enabled. Logging to: %s\n", logPath)
		}
		defer logging.CloseLogger()
	}

	cfg, err := config.Load(args["config"])
	if err != nil {
		log.Printf("Invalid configuration: %v", err)
		return exitFatal
	}
	if err := cfg.ApplyArgs(args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		utils.PrintUsage(os.Stderr)
		return exitUsage
	}
	logging.DebugLog("Configuration: K=%v MIN_SCORE=%v dir=%s ratings=%s database=%s presenter=%s",
		cfg.K, cfg.MinScore, cfg.ImageDir, cfg.RatingsFile, cfg.Database, cfg.Presenter)

	switch command := args["command"]; command {
	case "rate":
		return handleRateCommand(cfg)
	case "list":
		return handleListCommand(cfg, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		utils.PrintUsage(os.Stderr)
		return exitUsage
	}
}

// openBackend returns the configured ratings store. db is nil unless the
// SQLite backend is used.
func openBackend(cfg config.Config) (ratingBackend, *database.Backend, error) {
	if cfg.Database == "" {
		return ratingfile.File{Path: cfg.RatingsFile}, nil, nil
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database %s: %w", cfg.Database, err)
	}
	return db, db, nil
}

// printSettings reports the effective rating parameters
func printSettings(w io.Writer, cfg config.Config) {
	fmt.Fprintf(w, "K set to %s%s\n", strconv.FormatFloat(cfg.K, 'f', -1, 64), defaultMark(cfg.K == config.DefaultK))
	fmt.Fprintf(w, "MIN_SCORE set to %s%s\n", strconv.FormatFloat(cfg.MinScore, 'f', -1, 64), defaultMark(cfg.MinScore == config.DefaultMinScore))
}

func defaultMark(isDefault bool) string {
	if isDefault {
		return " (default)"
	}
	return ""
}

func handleRateCommand(cfg config.Config) int {
	printSettings(os.Stdout, cfg)

	backend, db, err := openBackend(cfg)
	if err != nil {
		log.Printf("%v", err)
		return exitFatal
	}
	if db != nil {
		defer db.Close()
	}

	persisted, err := backend.Load()
	if err != nil {
		log.Printf("Failed to load ratings: %v", err)
		return exitFatal
	}

	discovered, stats, err := scanner.DiscoverImages(scanner.ScanOptions{
		FolderPath: cfg.ImageDir,
		Extensions: cfg.Extensions,
		Recursive:  cfg.Recursive,
		DebugMode:  logging.Enabled(),
	})
	if err != nil {
		log.Printf("Failed to list images in %s: %v", cfg.ImageDir, err)
		return exitFatal
	}
	logging.LogInfo("Found %d images (%d files, %d skipped), %d persisted ratings",
		stats.Images, stats.Files, stats.Skipped, len(persisted))

	store, err := ratings.Merge(persisted, discovered, scanner.FileExists)
	if err != nil {
		log.Printf("%v", err)
		return exitFatal
	}

	seed := cfg.Seed
	if !cfg.SeedSet {
		seed = uint64(time.Now().UnixNano())
	}
	logging.LogInfo("Selection seed: %d", seed)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	var p session.Presenter
	switch cfg.Presenter {
	case config.PresenterWindow:
		p = window.New(cfg.WindowHeight)
	default:
		p = presenter.NewViewer(cfg.Viewer, cfg.ViewerArgs, presenter.NewLineReader(os.Stdin))
	}

	collector := metrics.NewCollector()
	observers := []session.Observer{collector}
	if db != nil {
		observers = append(observers, db)
	}
	if cfg.History != "" {
		observers = append(observers, history.Ledger{Path: cfg.History})
	}

	ctx, stop := signalhandler.NotifyContext(context.Background())
	defer stop()

	sess := &session.Session{
		Store:     store,
		Selector:  ratings.NewSelector(rng),
		Elo:       ratings.Elo{K: cfg.K},
		Presenter: p,
		MinScore:  cfg.MinScore,
		Out:       os.Stdout,
		Observers: observers,
		SessionID: uuid.NewString(),
		Color:     !cfg.NoColor,
	}
	summary, runErr := sess.Run(ctx)

	// Every applied update is kept, whatever ended the session
	if err := backend.Save(store.All()); err != nil {
		log.Printf("Failed to save ratings: %v", err)
		return exitFatal
	}

	collector.SetViable(summary.Remaining)
	if cfg.MetricsFile != "" {
		if err := collector.WriteFile(cfg.MetricsFile); err != nil {
			logging.LogError("Failed to write metrics to %s: %v", cfg.MetricsFile, err)
		}
	}

	fmt.Printf("Rated %d pairs (%d invalid inputs), %d images left to rate.\n",
		summary.Rounds, summary.Invalid, summary.Remaining)

	switch {
	case runErr == nil:
		return exitOK
	case errors.Is(runErr, session.ErrInterrupted):
		return signalhandler.ExitInterrupted
	default:
		log.Printf("Session failed: %v", runErr)
		return exitFatal
	}
}
