package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/codenotes"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to generate")
	files := flag.Int("files", 50, "Number of files the notes are spread over")
	adapter := flag.String("adapter", "fs", "Storage adapter to measure (fs or bolt)")
	keep := flag.Bool("keep", false, "Keep the benchmark store after running")
	flag.Parse()
	if err := validate(*count, *files); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	benchDir, err := os.MkdirTemp("", "codenotes_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := context.Background()
	open := func() *codenotes.Service {
		svc, err := codenotes.Start(ctx,
			codenotes.WithAdapter(*adapter),
			codenotes.WithPath(benchDir),
			codenotes.WithLogger(logger),
		)
		if err != nil {
			panic(err)
		}
		return svc
	}

	// Every add rewrites the whole snapshot, so this grows with count.
	fmt.Printf("Adding %d notes over %d files (%s)...\n", *count, *files, *adapter)
	svc := open()
	startAdd := time.Now()
	for i := 0; i < *count; i++ {
		file := fmt.Sprintf("/bench/src/file_%d.go", i%*files)
		if _, err := svc.AddNote(ctx, file, i / *files, fmt.Sprintf("benchmark note %d", i)); err != nil {
			panic(err)
		}
	}
	addDuration := time.Since(startAdd)
	if err := svc.Stop(ctx); err != nil {
		panic(err)
	}

	// Re-open to simulate a new editor session.
	fmt.Println("Reloading...")
	startLoad := time.Now()
	svc2 := open()
	loaded := svc2.Snapshot().Count()
	loadDuration := time.Since(startLoad)
	_ = svc2.Stop(ctx)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d notes, %s):\n", *count, *adapter)
	fmt.Printf("  Add:    %v (%v/note)\n", addDuration, addDuration/time.Duration(*count))
	fmt.Printf("  Reload: %v (Items: %d)\n", loadDuration, loaded)
	fmt.Printf("--------------------------------------------------\n")
}

func validate(count, files int) error {
	if count < 1 {
		return fmt.Errorf("-count must be at least 1, got %d", count)
	}
	if files < 1 {
		return fmt.Errorf("-files must be at least 1, got %d", files)
	}
	return nil
}
