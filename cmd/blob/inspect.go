package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/blobkit/pkg/blob"
)

type inspectReport struct {
	File   string         `json:"file"`
	Size   int64          `json:"size"`
	Flags  string         `json:"flags"`
	Mapped bool           `json:"mapped"`
	Chunks []inspectChunk `json:"chunks"`
}

type inspectChunk struct {
	Index       int    `json:"index"`
	Offset      int    `json:"offset"`
	Type        string `json:"type"`
	Extra       uint16 `json:"extra"`
	Size        int    `json:"size"`
	PayloadSize int    `json:"payload_size"`
}

func inspectCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Inspect the chunks of blob containers",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "emit machine-readable JSON", Destination: &asJSON},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_ = ctx

			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return cli.Exit("error: no input files", 1)
			}

			var reports []inspectReport
			for _, path := range paths {
				report, err := inspectFile(path)
				if err != nil {
					msg := fmt.Sprintf("error: %s: %v", path, err)
					if hint := foreignSignatureHint(path); hint != "" {
						msg += " (" + hint + ")"
					}
					return cli.Exit(msg, 1)
				}
				if asJSON {
					reports = append(reports, report)
					continue
				}
				printReport(report)
			}

			if asJSON {
				out, err := json.MarshalIndent(reports, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
			}
			return nil
		},
	}
}

func inspectFile(path string) (inspectReport, error) {
	f, err := blob.Open(path)
	if err != nil {
		return inspectReport{}, err
	}
	defer func() { _ = f.Close() }()

	report := inspectReport{
		File:   path,
		Size:   int64(len(f.Data)),
		Flags:  f.Flags().String(),
		Mapped: f.Mapped(),
		Chunks: make([]inspectChunk, 0, len(f.Chunks())),
	}
	for i, ch := range f.Chunks() {
		report.Chunks = append(report.Chunks, inspectChunk{
			Index:       i,
			Offset:      f.Offset(i),
			Type:        ch.Type().String(),
			Extra:       ch.Extra(),
			Size:        ch.Size(),
			PayloadSize: len(ch.Payload()),
		})
	}
	return report, nil
}

func printReport(r inspectReport) {
	fmt.Printf("Blob Inspect: %s\n", r.File)
	fmt.Printf("File: %s (%s)\n", filepath.Base(r.File), formatBytes(uint64(r.Size)))
	fmt.Printf("Format: %s, header %d bytes\n", blob.SignatureCurrent, blob.HeaderSize)
	row("flags", r.Flags)
	rowInt("chunks", len(r.Chunks))

	section("Chunks")
	if len(r.Chunks) == 0 {
		fmt.Println("(empty container)")
		return
	}
	for _, ch := range r.Chunks {
		fmt.Printf("%-4d off=%-10d %-36s extra=0x%04x size=%s\n",
			ch.Index, ch.Offset, ch.Type, ch.Extra, formatBytes(uint64(ch.Size)))
	}
}

// foreignSignatureHint decodes the leading header leniently so files written
// on another platform get a signature hint next to the validation error.
func foreignSignatureHint(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 24)
	n, err := io.ReadFull(f, buf)
	if err != nil && n == 0 {
		return ""
	}
	h, err := blob.DecodeHeader(buf[:n])
	if err != nil || h.Signature == blob.SignatureCurrent || !h.Signature.Known() {
		return ""
	}
	return fmt.Sprintf("header written as %s", h.Signature)
}

func section(title string) {
	line := strings.Repeat("-", len(title)+8)
	fmt.Printf("\n%s\n--- %s ---\n%s\n", line, title, line)
}

func row(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("%-24s %s\n", label+":", value)
}

func rowInt(label string, v int) {
	if v == 0 {
		return
	}
	row(label, fmt.Sprintf("%d", v))
}

func formatBytes(b uint64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
		tb = 1024 * gb
	)
	switch {
	case b >= tb:
		return fmt.Sprintf("%.2f TiB", float64(b)/float64(tb))
	case b >= gb:
		return fmt.Sprintf("%.2f GiB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.2f MiB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.2f KiB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
