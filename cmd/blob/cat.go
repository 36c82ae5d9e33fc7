package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/samcharles93/blobkit/pkg/blob"
)

func catCmd() *cli.Command {
	var output string

	return &cli.Command{
		Name:      "cat",
		Usage:     "Concatenate blob containers into one, re-validating every chunk",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output file (default stdout)",
				Destination: &output,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_ = ctx

			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return cli.Exit("error: no input files", 1)
			}

			var out io.Writer = os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				out = f
			}

			// Progress goes to stderr so it never corrupts a piped stream.
			if term.IsTerminal(int(os.Stderr.Fd())) {
				bar := progressbar.DefaultBytes(-1, "concatenating")
				defer func() { _ = bar.Close() }()
				out = io.MultiWriter(out, bar)
			}

			w := blob.NewWriter(out)
			for _, path := range paths {
				f, err := blob.Open(path)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %s: %v", path, err), 1)
				}
				for _, ch := range f.Chunks() {
					if err := w.Append(ch); err != nil {
						_ = f.Close()
						return err
					}
				}
				_ = f.Close()
			}
			return nil
		},
	}
}
