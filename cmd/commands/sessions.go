package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/mnording/kompis/internal/config"
	"github.com/mnording/kompis/internal/events"
	"github.com/mnording/kompis/internal/sessions"
)

// NewSessionsCommand returns the sessions subcommand.
func NewSessionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "Manage chat sessions",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all sessions",
				Action: runSessionsList,
			},
			{
				Name:      "show",
				Usage:     "Show the turns of a session",
				ArgsUsage: "<session_id>",
				Action:    runSessionsShow,
			},
			{
				Name:      "events",
				Usage:     "Show the event log of a session",
				ArgsUsage: "<session_id>",
				Action:    runSessionsEvents,
			},
		},
		DefaultCommand: "list",
	}
}

func newStore() *sessions.FileStore {
	return sessions.NewFileStore(config.SessionsPath())
}

func runSessionsList(_ context.Context, _ *cli.Command) error {
	store := newStore()

	list, err := store.List()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if len(list) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tTURNS\tUPDATED\tTITLE")
	for _, s := range list {
		title := s.Title
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			s.ID, s.Status, s.TurnCount, s.UpdatedAt.Format("2006-01-02 15:04"), title)
	}
	return w.Flush()
}

func runSessionsShow(_ context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: kompis sessions show <session_id>")
	}

	store := newStore()
	if _, err := store.Get(id); err != nil {
		return fmt.Errorf("session %s: %w", id, err)
	}

	turns, err := store.LoadTurns(id)
	if err != nil {
		return fmt.Errorf("load turns: %w", err)
	}

	for _, t := range turns {
		if t.SystemGenerated {
			continue
		}
		content := t.Content
		if n := len(t.Images) + len(t.DisplayImages); n > 0 {
			content += fmt.Sprintf(" [%d image(s)]", n)
		}
		fmt.Printf("[%s] %s: %s\n", t.Ts.Format("15:04:05"), strings.ToUpper(t.Role), content)
	}
	return nil
}

func runSessionsEvents(_ context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: kompis sessions events <session_id>")
	}

	evs, err := events.ReadLog(eventLogDir(), id)
	if err != nil {
		return fmt.Errorf("read event log: %w", err)
	}
	if len(evs) == 0 {
		fmt.Println("No events recorded.")
		return nil
	}

	for _, e := range evs {
		payload, _ := json.Marshal(e.Payload)
		fmt.Printf("[%s] %-18s %s\n", e.Timestamp.Format("15:04:05"), e.Type, payload)
	}
	return nil
}
