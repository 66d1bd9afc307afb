package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	flags "github.com/jessevdk/go-flags"

	"github.com/japaniel/animedeck/pkg/app"
	"github.com/japaniel/animedeck/pkg/config"
	"github.com/japaniel/animedeck/pkg/db"
)

// Options are the flags shared by every command.
type Options struct {
	Config  string `short:"c" long:"config" description:"path to the YAML config (default $CONFIG_PATH or ./animedeck.yaml)"`
	Verbose bool   `short:"v" long:"verbose" description:"log at debug level"`
	Version bool   `long:"version" description:"print the version and exit"`
}

// cli carries what every command needs once the config is loaded.
type cli struct {
	Options

	ctx     context.Context
	cfg     *config.Config
	logger  *slog.Logger
	library *db.Library
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	c := &cli{ctx: ctx}
	parser := flags.NewParser(&c.Options, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "animedeck"
	parser.SubcommandsOptional = true

	commands := []struct {
		name, short, long string
		data              any
	}{
		{"build", "Build per-show tables and decks",
			"Extract vocabulary from every show under the transcript directory (or the named shows), then write its table, library rows and decks.",
			&buildCommand{cli: c}},
		{"merge", "Merge every show into the mega deck",
			"Combine the per-show vocabulary tables into one cross-show deck, keeping the best-media example of each word.",
			&mergeCommand{cli: c}},
		{"import-tables", "Load per-show tables into the library",
			"Store every per-show vocabulary table from the CSV directory in the library database, replacing each show as a whole.",
			&importTablesCommand{cli: c}},
		{"shows", "List the shows stored in the library",
			"Print every show in the library database with its word count and last update.",
			&showsCommand{cli: c}},
		{"import-dict", "Download and verify the lexicon",
			"Make sure the JMdict lexicon is on disk and print its statistics.",
			&importDictCommand{cli: c}},
	}
	for _, cmd := range commands {
		if _, err := parser.AddCommand(cmd.name, cmd.short, cmd.long, cmd.data); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}

	parser.CommandHandler = func(cmd flags.Commander, rest []string) error {
		if c.Version {
			fmt.Println(app.Version())
			return nil
		}
		if cmd == nil {
			return errors.New("no command given, see --help")
		}
		if err := c.setup(); err != nil {
			return err
		}
		defer c.close()
		return cmd.Execute(rest)
	}

	if _, err := parser.ParseArgs(args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) {
			if ferr.Type == flags.ErrHelp {
				fmt.Println(ferr.Message)
				return 0
			}
			fmt.Fprintln(os.Stderr, ferr.Message)
			return 2
		}
		if c.logger != nil {
			c.logger.Error("run failed", "error", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}

func (c *cli) setup() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Verbose {
		cfg.Log.Level = "debug"
	}
	c.cfg = cfg
	c.logger = app.NewLogger(cfg.Log).With("run_id", uuid.NewString())

	if cfg.Library.Enabled {
		lib, err := db.OpenLibrary(cfg.Library.Path, c.logger)
		if err != nil {
			// the CSV tables still carry everything a merge needs
			c.logger.Warn("library unavailable", "path", cfg.Library.Path, "error", err)
			return nil
		}
		c.library = lib
	}
	return nil
}

func (c *cli) close() {
	if c.library != nil {
		c.library.Close()
	}
}

// track records the command in the library runs table when one is open.
func (c *cli) track(command string, fn func() error) error {
	if c.library == nil {
		return fn()
	}
	id := uuid.NewString()
	if err := c.library.StartRun(c.ctx, id, command); err != nil {
		c.logger.Warn("run not recorded", "error", err)
		return fn()
	}
	runErr := fn()
	// the root context may already be cancelled
	ctx := context.WithoutCancel(c.ctx)
	if err := c.library.FinishRun(ctx, id, runErr); err != nil {
		c.logger.Warn("run not finalized", "run", id, "error", err)
		return runErr
	}
	if r, err := c.library.Run(ctx, id); err == nil && r != nil && r.FinishedAt != nil {
		c.logger.Info("run recorded", "run", r.ID, "command", r.Command,
			"status", r.Status, "elapsed", r.FinishedAt.Sub(r.StartedAt))
	}
	return runErr
}
