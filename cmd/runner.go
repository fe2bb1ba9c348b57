package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/jlwilt7/lockedin-music/internal/metadata"
	"github.com/jlwilt7/lockedin-music/internal/repositories"
	"github.com/jlwilt7/lockedin-music/internal/services"
	"github.com/jlwilt7/lockedin-music/internal/shared"
	"github.com/jlwilt7/lockedin-music/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	auth       *services.AuthService
	store      services.ObjectStore
	records    services.RecordStore
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Auth       *services.AuthService
	Store      services.ObjectStore
	Records    services.RecordStore
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		auth:       opts.Auth,
		store:      opts.Store,
		records:    opts.Records,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, uploadCommand, libraryCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the runner's logger, used when a TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// requireSession restores the saved session and refreshes an expired token.
// Returns [shared.ErrNotAuthenticated] when neither works.
func (r *Runner) requireSession(ctx context.Context) error {
	if r.auth == nil {
		return fmt.Errorf("%w: auth service not initialized", shared.ErrServiceUnavailable)
	}

	if _, err := r.auth.LoadSession(); err != nil {
		return fmt.Errorf("%w: run 'lockedin auth login' first", shared.ErrNotAuthenticated)
	}

	if r.auth.OwnerID() != "" {
		return nil
	}

	r.logger.Debug("access token expired, refreshing")
	if _, err := r.auth.Refresh(ctx); err != nil {
		return fmt.Errorf("%w: session expired, run 'lockedin auth login' again", shared.ErrNotAuthenticated)
	}
	return nil
}

// openCache opens the local resolution cache database. Returns (nil, nil)
// when the database has not been set up; the pipeline works without it.
func (r *Runner) openCache() (*repositories.ResolutionCache, *sql.DB, error) {
	path := r.config.Database.Path
	if path == "" {
		return nil, nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		r.logger.Debug("resolution cache database not found, continuing without cache", "path", path)
		return nil, nil, nil
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	return repositories.NewResolutionCache(db), db, nil
}

// buildQueue assembles the upload pipeline over the runner's services.
func (r *Runner) buildQueue(cache *repositories.ResolutionCache) *tasks.UploadQueue {
	extractor := metadata.NewExtractor(r.logger)
	transfer := tasks.NewFileTransfer(r.store, r.auth, r.logger)
	resolver := tasks.NewEntityResolver(r.records, r.auth, cache, r.logger)
	return tasks.NewUploadQueue(extractor, transfer, resolver, r.records, r.auth, r.logger)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
