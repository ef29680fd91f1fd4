package main

// Brainstorm from the terminal:
//   go run ./cmd/brainstorm --mock
//   go run ./cmd/brainstorm --backend http://localhost:5000

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/google/uuid"

	"brainplan/internal/attachments"
	"brainplan/internal/backend"
	"brainplan/internal/brainstorm"
	"brainplan/internal/cli"
	"brainplan/internal/shared/config"
	localstore "brainplan/internal/shared/storage/object/local"
	"brainplan/internal/shared/telemetry"
)

func main() {
	mock := flag.Bool("mock", false, "use synthesized results instead of the backend")
	backendURL := flag.String("backend", "", "backend base URL; implies live mode")
	archive := flag.Bool("archive", false, "archive attachments in LOCAL_STORE_DIR")
	verbose := flag.Bool("verbose", false, "print structured logs to stderr")
	flag.Parse()

	if !*verbose {
		telemetry.SetOutput(io.Discard)
	}

	cfg := config.Load()
	if *backendURL != "" {
		cfg.UseMockData = false
		cfg.BackendURL = strings.TrimRight(*backendURL, "/")
	}
	if *mock {
		cfg.UseMockData = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *archive); err != nil && !errors.Is(err, cli.ErrAborted) {
		log.Fatalf("brainstorm: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config, archive bool) error {
	mode := cfg.Mode()
	opts := []brainstorm.Option{
		brainstorm.WithMockSource(brainstorm.NewMockGenerator(cfg.MockDelay)),
		brainstorm.WithPresenter(&cli.Presenter{Out: os.Stdout, Mode: mode}),
		brainstorm.WithSession(uuid.NewString()),
		brainstorm.WithLimits(cfg.Limits()),
	}
	if !mode.UseMock {
		client, err := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
		if err != nil {
			return err
		}
		opts = append(opts, brainstorm.WithLiveSource(client))
	}

	intake := &attachments.Intake{Limits: cfg.Limits()}
	if archive {
		intake.Store = localstore.New(cfg.LocalStoreDir)
	}

	fmt.Fprintf(os.Stdout, "Mode: %s", mode.Label())
	if !mode.UseMock {
		fmt.Fprintf(os.Stdout, " (%s)", mode.BackendBaseURL)
	}
	fmt.Fprintln(os.Stdout)

	session := &cli.Session{
		Driver:      cli.NewSurveyDriver(terminal.Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}),
		Coordinator: brainstorm.NewCoordinator(mode, opts...),
		Intake:      intake,
		Out:         os.Stdout,
	}
	return session.Run(ctx)
}
