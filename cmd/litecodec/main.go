package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/wippyai/litecodec/jsoncodec"
	"github.com/wippyai/litecodec/value"
	"github.com/wippyai/litecodec/yamlcodec"
)

func main() {
	var (
		inFile      = flag.String("in", "", "Input document (json or yaml)")
		mergeFile   = flag.String("merge", "", "Patch document to merge onto the input")
		format      = flag.String("format", "json", "Output format: json or yaml")
		compact     = flag.Bool("compact", false, "Always emit compact JSON")
		interactive = flag.Bool("i", false, "Interactive tree browser")
	)
	flag.Parse()

	if *inFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: litecodec -in <file> [-merge <file>] [-format json|yaml]")
		fmt.Fprintln(os.Stderr, "       litecodec -in <file> -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*inFile, *mergeFile, *format, *compact, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(inFile, mergeFile, format string, compact, interactive bool) error {
	doc, err := readDocument(inFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", inFile, err)
	}

	if mergeFile != "" {
		patch, err := readDocument(mergeFile)
		if err != nil {
			return fmt.Errorf("read %s: %w", mergeFile, err)
		}
		doc = doc.Merge(patch)
	}

	if interactive {
		return runInteractive(inFile, doc)
	}

	out, err := render(doc, format, compact)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func readDocument(path string) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Value{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlcodec.Unmarshal(data)
	default:
		return jsoncodec.Unmarshal(data)
	}
}

func render(doc value.Value, format string, compact bool) ([]byte, error) {
	switch format {
	case "yaml":
		return yamlcodec.Marshal(doc)
	case "json":
		// Indent only for humans; pipes get compact output.
		if !compact && term.IsTerminal(int(os.Stdout.Fd())) {
			return jsoncodec.MarshalIndent(doc, "", "  ")
		}
		return jsoncodec.Marshal(doc)
	default:
		return nil, fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
