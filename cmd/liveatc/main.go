package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/liveatc"
	"github.com/fwojciec/liveatc/goquery"
	liveatchttp "github.com/fwojciec/liveatc/http"
	"github.com/fwojciec/liveatc/postgres"
	"github.com/fwojciec/liveatc/scrape"
	atcslog "github.com/fwojciec/liveatc/slog"
	"github.com/fwojciec/liveatc/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Default SQLite path, used when neither flags nor config name a store.
	DBPath string

	// Open stores, closed by Close.
	SQLite   *sqlite.DB
	Postgres *postgres.DB

	Airports liveatc.AirportService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Postgres != nil {
		_ = m.Postgres.Close()
	}
	if m.SQLite != nil {
		return m.SQLite.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("liveatc"),
		kong.Description("Extract airport and audio feed details from LiveATC."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'liveatc --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, err := m.config(cli)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return err
	}
	deps.Config = cfg

	level, _ := cfg.LogLevel()
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	fetcher := atcslog.NewLoggingFetcher(liveatchttp.NewFetcher(
		liveatchttp.WithTimeout(cfg.Timeout()),
		liveatchttp.WithUserAgent(cfg.Scrape.UserAgent),
	), logger)
	defer fetcher.Close()

	scraper := &scrape.Scraper{
		Fetcher: fetcher,
		Parser: goquery.NewParser(
			goquery.WithBaseURL(cfg.Scrape.BaseURL),
			goquery.WithLogger(logger),
		),
		BaseURL:     cfg.Scrape.BaseURL,
		RetryDelays: cfg.RetryDelays(),
		Logger:      logger,
	}
	if cfg.Scrape.RequestsPerSecond > 0 {
		scraper.RateLimiter = scrape.NewHostLimiter(cfg.Scrape.RequestsPerSecond, cfg.Scrape.Burst)
	}
	deps.Finder = atcslog.NewLoggingAirportFinder(scraper, logger)
	deps.Batch = &scrape.Batch{Finder: deps.Finder, Concurrency: cfg.Scrape.Concurrency}

	// The stream and metar commands never touch the store.
	if cmd != "stream" && cmd != "metar" {
		if err := m.openStore(ctx, cfg, stderr); err != nil {
			return err
		}
		defer m.Close()

		deps.Airports = atcslog.NewLoggingAirportService(m.Airports, logger)
		deps.Syncer = &scrape.Syncer{Finder: deps.Finder, Airports: deps.Airports}
	}

	return kongCtx.Run(deps)
}

// config layers the config file and explicitly set flags over the defaults.
func (m *Main) config(cli *CLI) (Config, error) {
	cfg := DefaultConfig()
	if cli.Config != "" {
		var err error
		if cfg, err = LoadConfig(cli.Config); err != nil {
			return cfg, err
		}
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = m.DBPath
	}
	if cli.DB != "" {
		cfg.Store.Path = cli.DB
	}
	if cli.DatabaseURL != "" {
		cfg.Store.DatabaseURL = cli.DatabaseURL
	}
	if cli.BaseURL != "" {
		cfg.Scrape.BaseURL = cli.BaseURL
	}

	return cfg, cfg.Validate()
}

func (m *Main) openStore(ctx context.Context, cfg Config, stderr io.Writer) error {
	if cfg.Store.DatabaseURL != "" {
		m.Postgres = postgres.NewDB(cfg.Store.DatabaseURL)
		if err := m.Postgres.Open(ctx); err != nil {
			fmt.Fprintf(stderr, "Hint: Check LIVEATC_DATABASE_URL or unset it to use SQLite\n")
			return fmt.Errorf("failed to open database: %w", err)
		}
		m.Airports = postgres.NewAirportService(m.Postgres)
		return nil
	}

	if dir := filepath.Dir(cfg.Store.Path); dir != "." {
		_ = os.MkdirAll(dir, 0755)
	}
	m.SQLite = sqlite.NewDB(cfg.Store.Path)
	if err := m.SQLite.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set LIVEATC_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", cfg.Store.Path, err)
	}
	m.Airports = sqlite.NewAirportService(m.SQLite)
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "liveatc.db"
	}
	return filepath.Join(home, ".liveatc", "liveatc.db")
}
