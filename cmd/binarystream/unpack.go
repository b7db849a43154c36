package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/klauspost/compress/zstd"
	"github.com/urfave/cli/v3"

	binarystream "github.com/treblenaX/BinaryStream"
)

func unpackCommand() *cli.Command {
	return &cli.Command{
		Name:      "unpack",
		Usage:     "Unpack a bit stream into decimal integers, one per line",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "-",
				Usage:   "output file path (- for stdout)",
			},
			&cli.IntFlag{
				Name:     "width",
				Aliases:  []string{"w"},
				Required: true,
				Usage:    "bit width of every value (1-64)",
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Value:   0,
				Usage:   "number of values to unpack (0 reads until end of stream)",
			},
			&cli.BoolFlag{
				Name:  "zstd",
				Usage: "zstd-decompress the stream before unpacking",
			},
		},
		Action: runUnpack,
	}
}

func runUnpack(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
	}

	path := cmd.Args().First()

	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified stream files.
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	var src io.Reader = file

	if cmd.Bool("zstd") {
		dec, err := zstd.NewReader(file)
		if err != nil {
			return fmt.Errorf("creating zstd reader: %w", err)
		}
		defer dec.Close()

		src = dec
	}

	output := cmd.String("output")
	if output == "-" {
		return unpackStream(os.Stdout, src, cmd.Int("width"), cmd.Int("count"))
	}

	out, err := os.Create(output) //nolint:gosec // CLI tool creates user-specified output files.
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	return unpackStream(out, src, cmd.Int("width"), cmd.Int("count"))
}

func unpackStream(w io.Writer, src io.Reader, width, count int) error {
	br := binarystream.NewReader(src)
	out := bufio.NewWriter(w)

	for n := 0; count == 0 || n < count; n++ {
		v, err := br.ReadBits(width)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return fmt.Errorf("unpacking value %d: %w", n, err)
		}

		if _, err := out.WriteString(strconv.FormatUint(v, 10) + "\n"); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}

	if err := out.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return br.Close()
}
