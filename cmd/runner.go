package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Ckr1111/darlybot/internal/catalogue"
	"github.com/Ckr1111/darlybot/internal/history"
	"github.com/Ckr1111/darlybot/internal/input"
	"github.com/Ckr1111/darlybot/internal/nav"
	"github.com/Ckr1111/darlybot/internal/shared"
	"github.com/Ckr1111/darlybot/internal/songdata"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	logger  *log.Logger
	output  io.Writer
	planner *nav.Planner
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
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

	return &Runner{
		config:  opts.Config,
		logger:  opts.Logger,
		output:  opts.Output,
		planner: nav.NewPlanner(nav.DefaultLayout()),
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, selectCommand, planCommand, songsCommand, historyCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// configFromFlag reloads configuration when the command names a file that
// exists; otherwise the runner keeps what main loaded.
func (r *Runner) configFromFlag(cmd *cli.Command) *shared.Config {
	path := cmd.String("config")
	if path == "" {
		return r.config
	}
	if _, err := os.Stat(path); err != nil {
		return r.config
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, keeping current", "path", path, "error", err)
		return r.config
	}
	r.config = config
	return config
}

// loadCatalogue builds a catalogue from the configured CSV, falling back to
// the embedded song list when the file is absent.
func (r *Runner) loadCatalogue() (*catalogue.Catalogue, catalogue.RowSource, error) {
	cat := catalogue.New(r.logger)

	src := catalogue.RowSource(songdata.NewCSVFile(r.config.Catalogue.CSVPath))
	err := cat.Load(src)
	if errors.Is(err, shared.ErrCatalogueNotFound) {
		r.logger.Warn("catalogue file not found, using embedded song list",
			"path", r.config.Catalogue.CSVPath)
		src = songdata.Embedded()
		err = cat.Load(src)
	}
	if err != nil {
		return nil, nil, err
	}

	return cat, src, nil
}

// newSender probes the configured input backend.
func (r *Runner) newSender() (input.Sender, error) {
	return input.Probe(r.config.Input, r.logger)
}

// openStore opens the selection-history database and runs migrations. The
// caller owns the returned connection.
func (r *Runner) openStore() (*history.Store, *sql.DB, error) {
	db, err := shared.NewDatabase(r.config.History.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.History.MaxOpenConns, r.config.History.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return history.NewStore(db), db, nil
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
