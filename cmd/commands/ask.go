package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/mnording/kompis/internal/sessions"
)

// NewAskCommand returns the ask subcommand.
func NewAskCommand() *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "Send a single message and print the response",
		ArgsUsage: "<message>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "session",
				Aliases: []string{"s"},
				Usage:   "Session ID to continue (empty = one-off, nothing persisted)",
			},
			&cli.StringSliceFlag{
				Name:    "image",
				Aliases: []string{"i"},
				Usage:   "Attach an image file to the message",
			},
			&cli.StringSliceFlag{
				Name:  "doc",
				Usage: "Answer from the given document instead of the model's knowledge",
			},
			&cli.IntFlag{
				Name:  "timeout",
				Usage: "Response timeout in seconds",
				Value: 120,
			},
		},
		Action: runAsk,
	}
}

func runAsk(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd)

	message := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("usage: kompis ask <message>")
	}

	resume := cmd.String("session")
	app, err := buildApp(ctx, cmd, resume != "", resume)
	if err != nil {
		return err
	}
	defer app.close()

	images, err := readImages(cmd.StringSlice("image"))
	if err != nil {
		return err
	}

	if docs := cmd.StringSlice("doc"); len(docs) > 0 {
		app.orch.AttachDocuments(docs)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(cmd.Int("timeout"))*time.Second)
	defer cancel()

	turns, err := app.orch.RunTurn(ctx, message, images...)
	if err != nil {
		return err
	}

	for _, t := range turns {
		fmt.Println(t.Content)
		for _, img := range t.Images {
			if img.URL != "" {
				fmt.Println(img.URL)
			} else if len(img.Data) > 0 {
				if path, err := img.SaveTemp("kompis"); err == nil {
					fmt.Println(path)
				} else {
					fmt.Printf("(could not save image: %v)\n", err)
				}
			}
		}
	}
	return nil
}

func readImages(paths []string) ([]sessions.ImageRef, error) {
	refs := make([]sessions.ImageRef, 0, len(paths))
	for _, p := range paths {
		ref, err := sessions.ReadImageFile(p)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
