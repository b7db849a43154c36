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

var (
	errInvalidArgCount = errors.New("expected exactly one argument: file path")
	errValueTooWide    = errors.New("value does not fit in the requested bit width")
)

func packCommand() *cli.Command {
	return &cli.Command{
		Name:      "pack",
		Usage:     "Pack whitespace-separated unsigned integers into a bit stream",
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
			&cli.BoolFlag{
				Name:  "zstd",
				Usage: "zstd-compress the packed stream",
			},
		},
		Action: runPack,
	}
}

func runPack(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
	}

	path := cmd.Args().First()

	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified value files.
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	width := cmd.Int("width")

	values, err := readValues(file, width)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "-" {
		return packStream(os.Stdout, values, width, cmd.Bool("zstd"))
	}

	out, err := os.Create(output) //nolint:gosec // CLI tool creates user-specified output files.
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	return packStream(out, values, width, cmd.Bool("zstd"))
}

// readValues parses whitespace-separated unsigned decimal integers and
// rejects any value that does not fit in width bits.
func readValues(r io.Reader, width int) ([]uint64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	var values []uint64

	for scanner.Scan() {
		v, err := strconv.ParseUint(scanner.Text(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", scanner.Text(), err)
		}

		if width < 64 && v>>uint(width) != 0 {
			return nil, fmt.Errorf("%d as %d-bit: %w", v, width, errValueTooWide)
		}

		values = append(values, v)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading values: %w", err)
	}

	return values, nil
}

//revive:disable:flag-parameter
func packStream(w io.Writer, values []uint64, width int, compress bool) error {
	if !compress {
		return writeValues(w, values, width)
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}

	if err := writeValues(enc, values, width); err != nil {
		_ = enc.Close()

		return err
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing zstd stream: %w", err)
	}

	return nil
}

func writeValues(w io.Writer, values []uint64, width int) error {
	bw := binarystream.NewWriter(w)

	for _, v := range values {
		if err := bw.WriteBits(v, width); err != nil {
			return fmt.Errorf("packing value %d: %w", v, err)
		}
	}

	if err := bw.Close(); err != nil {
		return fmt.Errorf("flushing packed stream: %w", err)
	}

	return nil
}
