package commands

import (
	"github.com/urfave/cli/v3"

	"github.com/mnording/kompis/internal/config"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "kompis",
		Usage: "Conversational assistant with tools, web search and document Q&A",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   config.ConfigPath(),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			NewChatCommand(),
			NewAskCommand(),
			NewSessionsCommand(),
			NewVersionCommand(),
		},
		DefaultCommand: "chat",
	}
}
