package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/mnording/kompis/internal/events"
	"github.com/mnording/kompis/internal/tui"
)

// NewChatCommand returns the interactive chat subcommand.
func NewChatCommand() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Start an interactive chat session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "session",
				Aliases: []string{"s"},
				Usage:   "Session ID to resume (empty = new session)",
			},
		},
		Action: runChat,
	}
}

func runChat(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd)

	app, err := buildApp(ctx, cmd, true, cmd.String("session"))
	if err != nil {
		return err
	}
	defer app.close()

	model := tui.New(tui.Options{
		Context:      ctx,
		Orchestrator: app.orch,
		Registry:     app.registry,
		SessionID:    app.sess.ID,
		Locale:       app.loc,
	})
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	// Pump bus events into the program for the lifetime of the run.
	unsubscribe := app.bus.Subscribe(func(ev events.Event) {
		if msg := tui.Project(ev); msg != nil {
			p.Send(msg)
		}
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run chat ui: %w", err)
	}
	return nil
}
