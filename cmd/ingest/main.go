// Command ingest validates a voting dataset file against the expected schema and prints a summary.
// With -install it also writes a normalized CSV copy into the server's dataset directory, so the
// server can be pointed at clean data regardless of the source format.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"unsc-explorer/internal/dataset"
	"unsc-explorer/internal/storage"
)

func main() {
	root := flag.String("root", "./unsc-explorer", "server root directory")
	install := flag.Bool("install", false, "write a normalized CSV copy into the server dataset directory")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: ingest [-root dir] [-install] <dataset file>")
	}
	path := flag.Arg(0)

	frame, err := dataset.Load(path)
	if err != nil {
		log.Fatalf("Dataset validation failed: %v", err)
	}

	fmt.Printf("Dataset %s: %d votes, %d draft resolutions, %d member states\n",
		frame.Name(), frame.NumRows(), frame.NumUnique(dataset.ColDraft), frame.NumUnique(dataset.ColMemberState))
	fmt.Println("Columns:")
	for _, col := range dataset.Schema {
		fmt.Printf("  %-16s %-6s %d distinct values\n", col.Name, col.Kind, frame.NumUnique(col.Name))
	}

	if !*install {
		return
	}

	var buf bytes.Buffer
	if err := dataset.WriteCSV(frame, &buf); err != nil {
		log.Fatalf("Failed to normalize dataset: %v", err)
	}

	provider := storage.NewLocalProvider(*root)
	key := frame.Name() + ".csv"
	if err := provider.PutObject(context.Background(), "datasets", key, &buf); err != nil {
		log.Fatalf("Failed to install dataset: %v", err)
	}

	fmt.Printf("Installed normalized dataset at %s\n", filepath.Join(*root, "datasets", key))
}
