package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/mnording/kompis/internal/chat"
	"github.com/mnording/kompis/internal/config"
	"github.com/mnording/kompis/internal/docqa"
	"github.com/mnording/kompis/internal/events"
	"github.com/mnording/kompis/internal/i18n"
	"github.com/mnording/kompis/internal/imagegen"
	"github.com/mnording/kompis/internal/models"
	"github.com/mnording/kompis/internal/search"
	"github.com/mnording/kompis/internal/sessions"
)

// app bundles everything a conversational command needs: config, locale,
// the event bus and the orchestrator with its collaborators.
type app struct {
	cfg      *config.Config
	loc      i18n.Locale
	bus      *events.Bus
	sess     *sessions.Session
	orch     *chat.Orchestrator
	evlog    *events.EventLogger
	registry *models.Registry
}

func setupLogging(cmd *cli.Command) {
	level := slog.LevelWarn
	if cmd.Bool("debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func loadConfig(cmd *cli.Command) *config.Config {
	path := cmd.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		slog.Warn("config not found, using defaults", "path", path, "error", err)
		cfg = config.Default()
	}
	return cfg
}

// buildApp assembles the orchestrator stack. Optional services that fail
// to initialize (search, image generation, embeddings) are logged and
// left nil; the dispatcher and gate degrade to localized error replies
// for them.
//
// With persist set, the conversation is backed by the on-disk session
// store: resume names an existing session to continue, "" creates a new
// one. Without persist the conversation lives only in memory.
func buildApp(ctx context.Context, cmd *cli.Command, persist bool, resume string) (*app, error) {
	cfg := loadConfig(cmd)
	loc := i18n.Lookup(cfg.Language)

	registry := models.NewRegistry(cfg.Models)
	bus := events.NewBus(cfg.Events.BufferSize)

	searcher, err := search.New(ctx, cfg.WebSearch)
	if err != nil {
		slog.Warn("web search unavailable", "error", err)
		searcher = nil
	}

	generator, err := imagegen.New(cfg.Images)
	if err != nil {
		slog.Warn("image generation unavailable", "error", err)
		generator = nil
	}

	dispatcher := chat.NewDispatcher(generator, searcher, loc)

	embedder, err := docqa.NewEmbedder(ctx, cfg.DocQA.Embedding)
	if err != nil {
		slog.Warn("document embeddings unavailable", "error", err)
		embedder = nil
	}

	synthModel, err := registry.Default(ctx)
	if err != nil {
		slog.Warn("default model unavailable for document answers", "error", err)
		synthModel = nil
	}
	gate := chat.NewDocGate(cfg.DocQA, embedder, synthModel, loc)

	opts := chat.Options{Language: cfg.Language}

	var (
		store *sessions.FileStore
		sess  *sessions.Session
		prior []sessions.Turn
	)
	if persist {
		store = sessions.NewFileStore(config.SessionsPath())
		if resume == "" {
			sess, err = store.Create()
			if err != nil {
				return nil, fmt.Errorf("create session: %w", err)
			}
		} else {
			sess, err = store.Get(resume)
			if err != nil {
				return nil, fmt.Errorf("resume session %s: %w", resume, err)
			}
			prior, err = store.LoadTurns(sess.ID)
			if err != nil {
				return nil, fmt.Errorf("load session turns: %w", err)
			}
		}
		opts.Store = store
		opts.SessionID = sess.ID
	}

	orch := chat.NewOrchestrator(chat.RegistrySource{Registry: registry}, dispatcher, gate, bus, loc, opts)
	if len(prior) > 0 {
		orch.Restore(prior)
	}

	a := &app{cfg: cfg, loc: loc, bus: bus, sess: sess, orch: orch, registry: registry}
	if persist {
		a.evlog = events.NewEventLogger(eventLogDir(), bus)
	}
	return a, nil
}

func eventLogDir() string {
	return filepath.Join(config.KompisPath(), "events")
}

func (a *app) close() {
	if a.evlog != nil {
		a.evlog.Close()
	}
	a.bus.Close()
}
