package main

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/blobkit/pkg/blob"
)

func packCmd() *cli.Command {
	return &cli.Command{
		Name:      "pack",
		Usage:     "Pack payload files into a blob container, one chunk per file",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o", "out"},
				Usage:    "Output .blob path",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "type",
				Aliases:  []string{"t"},
				Usage:    "Chunk type tag, 1-4 characters (shorter tags are zero-padded)",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "extra",
				Aliases: []string{"x"},
				Usage:   "16-bit type-specific value stamped into each header",
			},
			&cli.IntFlag{
				Name:  "align",
				Usage: "Payload alignment in bytes (0 keeps the platform default)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return cli.Exit("error: no input files", 1)
			}

			typ, err := parseChunkType(cmd.String("type"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			extra := cmd.Int("extra")
			if extra < 0 || extra > math.MaxUint16 {
				return cli.Exit(fmt.Sprintf("error: extra %d does not fit in 16 bits", extra), 1)
			}

			align := cmd.Int("align")
			applyPackConfig(cmd, LoadConfig(), &align)

			outPath := cmd.String("output")
			out, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}

			w := blob.NewWriter(out)
			if align > 0 {
				w.Align = align
			}
			for _, path := range paths {
				payload, err := os.ReadFile(path)
				if err != nil {
					_ = out.Close()
					return fmt.Errorf("read %s: %w", path, err)
				}
				if _, err := w.WriteChunk(typ, uint16(extra), payload); err != nil {
					_ = out.Close()
					return fmt.Errorf("pack %s: %w", path, err)
				}
			}
			if err := out.Close(); err != nil {
				return err
			}

			fmt.Printf("wrote %d chunks (%s) to %s\n", len(paths), formatBytes(uint64(w.TotalBytes())), outPath)
			_ = ctx
			return nil
		},
	}
}

func parseChunkType(tag string) (blob.ChunkType, error) {
	var typ blob.ChunkType
	if len(tag) == 0 || len(tag) > len(typ) {
		return typ, fmt.Errorf("chunk type %q must be 1 to %d bytes", tag, len(typ))
	}
	copy(typ[:], tag)
	return typ, nil
}
