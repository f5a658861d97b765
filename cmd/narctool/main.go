// narctool is a CLI utility for inspecting Nintendo DS NARC archives.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/Kuruyia/sinjoh/pkg/encoding"
	"github.com/Kuruyia/sinjoh/pkg/narc"
)

var out io.Writer = os.Stdout

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "list", "ls":
		err = cmdList(args)
	case "extract", "x":
		err = cmdExtract(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`narctool - Nintendo DS NARC archive utility

Usage:
  narctool <command> [options]

Commands:
  info <file.narc>                        Show archive information
  list [-n N] <file.narc>                 List files with sizes and hashes
  extract <file.narc> <index|name|all> [output_dir]
                                          Extract file(s) to directory

Examples:
  narctool info land_data.narc
  narctool list -n 20 land_data.narc
  narctool extract land_data.narc 3 ./output
  narctool extract arealight.narc all ./output`)
}

func openArchive(path string, lenient bool) (*narc.Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var opts []narc.Option
	if lenient {
		opts = append(opts, narc.SkipMagicCheck(), narc.SkipByteOrderCheck())
	}
	return narc.Open(data, opts...)
}

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	lenient := fs.Bool("lenient", false, "Skip magic and byte order checks")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: narctool info [-lenient] <file.narc>")
	}

	archive, err := openArchive(fs.Arg(0), *lenient)
	if err != nil {
		return err
	}

	h := archive.Header()
	var total int
	for i := 0; i < archive.Len(); i++ {
		e, _ := archive.Entry(i)
		total += e.Size
	}

	fmt.Fprintf(out, "Archive:    %s\n", fs.Arg(0))
	fmt.Fprintf(out, "Version:    0x%04X\n", h.Version)
	fmt.Fprintf(out, "Byte order: %s\n", archive.ByteOrder())
	fmt.Fprintf(out, "Size:       %d bytes\n", h.FileSize)
	fmt.Fprintf(out, "Files:      %d (%d bytes)\n", archive.Len(), total)
	fmt.Fprintf(out, "Names:      %v\n", archive.HasNames())
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Chunks:")
	for _, c := range archive.Chunks() {
		fmt.Fprintf(out, "  %-4s offset %-8d size %d\n", c.Tag, c.Offset, c.Size)
	}
	return nil
}

func cmdList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	limit := fs.Int("n", 0, "Limit output to N files (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: narctool list [-n N] <file.narc>")
	}

	archive, err := openArchive(fs.Arg(0), false)
	if err != nil {
		return err
	}

	for i, data := range archive.All() {
		if *limit > 0 && i >= *limit {
			break
		}
		e, _ := archive.Entry(i)
		name := e.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(out, "%5d  %8d  %8d  %016x  %s\n", i, e.Offset, e.Size, xxhash.Sum64(data), name)
	}
	return nil
}

func cmdExtract(args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: narctool extract <file.narc> <index|name|all> [output_dir]")
	}

	outputDir := "."
	if fs.NArg() > 2 {
		outputDir = fs.Arg(2)
	}

	archive, err := openArchive(fs.Arg(0), false)
	if err != nil {
		return err
	}

	target := fs.Arg(1)
	if target == "all" || target == "*" {
		for i := 0; i < archive.Len(); i++ {
			if err := extractFile(archive, i, outputDir); err != nil {
				return err
			}
		}
		fmt.Fprintf(os.Stderr, "\nExtracted %d files\n", archive.Len())
		return nil
	}

	index, ok := archive.Lookup(target)
	if !ok {
		index, err = strconv.Atoi(target)
		if err != nil {
			return fmt.Errorf("file not found: %s", target)
		}
	}
	return extractFile(archive, index, outputDir)
}

// extractFile writes file i under outputDir, using its archive path when the
// archive has names and its zero-padded index otherwise.
func extractFile(archive *narc.Archive, i int, outputDir string) error {
	data, err := archive.File(i)
	if err != nil {
		return err
	}

	rel := fmt.Sprintf("%04d.bin", i)
	if name := encoding.NormalizePath(archive.Name(i)); name != "" {
		rel = filepath.FromSlash(name)
	}
	if !filepath.IsLocal(rel) {
		return fmt.Errorf("refusing to extract %q outside the output directory", rel)
	}

	outputPath := filepath.Join(outputDir, rel)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	fmt.Fprintf(out, "Extracted: %s (%d bytes)\n", outputPath, len(data))
	return nil
}
