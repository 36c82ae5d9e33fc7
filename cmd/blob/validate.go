package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/blobkit/pkg/blob"
)

func validateCmd() *cli.Command {
	var quiet bool

	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate blob containers, reporting the first defect per file",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "quiet",
				Aliases:     []string{"q"},
				Usage:       "suppress per-file OK output",
				Destination: &quiet,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_ = ctx

			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return cli.Exit("error: no input files", 1)
			}

			invalid := 0
			for _, path := range paths {
				f, err := blob.Open(path)
				if err != nil {
					invalid++
					fmt.Printf("%s: INVALID: %v\n", path, err)
					continue
				}
				chunks := len(f.Chunks())
				_ = f.Close()
				if !quiet {
					fmt.Printf("%s: OK (%d chunks)\n", path, chunks)
				}
			}

			if invalid > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d files invalid", invalid, len(paths)), 1)
			}
			return nil
		},
	}
}
