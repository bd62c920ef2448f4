// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Program jcdemo is an interactive demonstration of JSON path completion.
// It shows an editable JSON document and a path input whose suggestions
// are drawn from the most recent version of the document that parsed.
//
// On exit, the final value of the path input is printed to stdout.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/creachadair/jcomplete/docsync"
	"github.com/creachadair/jcomplete/internal/config"
	"github.com/creachadair/jcomplete/internal/watch"
	"github.com/creachadair/jcomplete/shell"
)

type flags struct {
	config  string
	seed    string
	lenient bool
	watch   bool
	logFile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "jcdemo",
		Short: "Edit a JSON document and complete paths into it",
		Long: `Edit a JSON document and complete paths into it.

The upper pane edits the document. It is parsed after every change; while the
text does not parse, the problem is shown and completions continue to use the
last version that did. The lower pane is a path input with completions.

Keys: tab switches panes, ctrl+f reformats the document, esc quits.

With --watch, changes to the --seed file made outside the program replace
the text being edited.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := setup(cmd, f)
			if err != nil {
				return err
			}
			defer func() { _ = s.log.Sync() }()

			if err := s.run(cmd.Context()); err != nil {
				return err
			}
			if v := s.input.Value(); v != "" {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.config, "config", "", "Configuration file (YAML)")
	fs.StringVar(&f.seed, "seed", "", "JSON file to edit instead of the built-in document")
	fs.BoolVar(&f.lenient, "lenient", false, "Accept comments and trailing commas")
	fs.BoolVar(&f.watch, "watch", false, "Reload the seed file when it changes")
	fs.StringVar(&f.logFile, "log-file", "", "Write logs to this file")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

// session is the state of one run of the program.
type session struct {
	cfg   *config.Config
	log   *zap.Logger
	loop  *docsync.Loop
	input *docsync.Input
	model shell.Model
}

// setup loads the configuration, applies flag overrides, and constructs the
// components of the program.
func setup(cmd *cobra.Command, f flags) (*session, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return nil, err
	}
	changed := cmd.Flags().Changed
	if changed("seed") {
		cfg.SeedFile = f.seed
	}
	if changed("lenient") {
		cfg.Lenient = f.lenient
	}
	if changed("watch") {
		cfg.Watch = f.watch
	}
	if changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if f.verbose {
		cfg.LogLevel = "debug"
	}

	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	seed, err := cfg.ReadSeed()
	if err != nil {
		return nil, err
	}

	lp := docsync.New(seed, &docsync.Options{Lenient: cfg.Lenient, Logger: log})
	lp.Subscribe(func(s docsync.Snapshot) {
		log.Debug("document updated", zap.Int("bytes", len(s.Text)), zap.Stringer("state", s.State()))
	})
	log.Info("starting",
		zap.String("seed", cfg.SeedFile), zap.Bool("lenient", cfg.Lenient), zap.Stringer("state", lp.State()))

	in := new(docsync.Input)
	return &session{
		cfg:   cfg,
		log:   log,
		loop:  lp,
		input: in,
		model: shell.New(lp, in, shell.Config{
			Placeholder: cfg.Placeholder,
			Width:       cfg.Width,
			Height:      cfg.Height,
			Logger:      log,
		}),
	}, nil
}

// run runs the interface until the user quits. If watching is enabled, the
// seed file is watched for changes while the interface runs.
func (s *session) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	p := tea.NewProgram(s.model, tea.WithAltScreen(), tea.WithContext(ctx))
	g.Go(func() error {
		defer cancel() // stop the watcher, if any
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run: %w", err)
		}
		return nil
	})
	if s.cfg.Watch && s.cfg.SeedFile != "" {
		g.Go(func() error {
			return watch.File(ctx, s.cfg.SeedFile, &watch.Options{Logger: s.log}, func(text string) {
				s.log.Info("seed file changed", zap.String("path", s.cfg.SeedFile))
				p.Send(shell.ReplaceText(text))
			})
		})
	}
	return g.Wait()
}

// newLogger constructs a logger for cfg. Logs are discarded unless a log file
// is configured, since the interface occupies the terminal.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.LogFile == "" {
		return zap.NewNop(), nil
	}
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{cfg.LogFile}
	zc.ErrorOutputPaths = []string{cfg.LogFile}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	return log, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "jcdemo: %v\n", err)
		os.Exit(1)
	}
}
