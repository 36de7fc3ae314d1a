// Command mdbatch converts a set of documents to markup as one batch run.
//
//	mdbatch -engine pdf2md -workers 4 doc1.pdf doc2.pdf
//	mdbatch -engine pdf2md -dir ./invoices -output ./converted
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/viant/mdbatch"
	"github.com/viant/mdbatch/config"
	"github.com/viant/mdbatch/model"
	"github.com/viant/mdbatch/progress"
	"github.com/viant/mdbatch/tracing"
)

func main() {
	var (
		configURL = flag.String("config", "", "config YAML location")
		dir       = flag.String("dir", "", "convert all documents under this directory")
		ext       = flag.String("ext", ".pdf", "document extension used with -dir")
		output    = flag.String("output", "", "base output root")
		workers   = flag.Int("workers", 0, "maximum parallel workers (0 = auto-detect)")
		engineCmd = flag.String("engine", "", "converter command")
		verbose   = flag.Bool("v", false, "verbose output")
		traceFile = flag.String("trace", "", "write trace spans to this file")
	)
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx, *configURL)
	if err != nil {
		log.Fatal(err)
	}
	if *output != "" {
		cfg.OutputRoot = *output
	}
	if *workers > 0 {
		cfg.MaxWorkers = *workers
	}
	if *engineCmd != "" {
		cfg.Engine.Command = *engineCmd
	}
	if *verbose {
		cfg.Verbose = true
	}
	if *traceFile != "" {
		if err := tracing.Init("mdbatch", "0.1.0", *traceFile); err != nil {
			log.Fatalf("failed to init tracing: %v", err)
		}
	}

	reporter := progress.ReporterFunc(func(completed, total int, description string) {
		fmt.Printf("[%d/%d] %s\n", completed, total, description)
	})

	service, err := mdbatch.New(
		mdbatch.WithConfig(cfg),
		mdbatch.WithReporter(reporter),
	)
	if err != nil {
		log.Fatal(err)
	}

	// First interrupt stops admission; in-flight conversions finish.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signals
		log.Println("stop requested, waiting for in-flight conversions")
		service.Stop()
	}()

	var summary *model.Summary
	if *dir != "" {
		summary, err = service.RunDirectory(ctx, *dir, *ext)
	} else {
		sources := flag.Args()
		if len(sources) == 0 {
			log.Fatal("no sources: pass document paths or -dir")
		}
		summary, err = service.Run(ctx, sources)
	}
	if err != nil {
		log.Fatal(err)
	}

	printSummary(summary)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func loadConfig(ctx context.Context, URL string) (*config.Config, error) {
	if URL == "" {
		return config.Default(), nil
	}
	return config.Load(ctx, URL)
}

func printSummary(summary *model.Summary) {
	fmt.Printf("\nrun %s: %d submitted, %d succeeded, %d failed\n",
		summary.RunID, summary.Submitted, summary.Succeeded, summary.Failed)
	fmt.Printf("pages: %d, images: %d, total conversion time: %s\n",
		summary.TotalPages, summary.TotalImages, summary.TotalDuration)
	for _, job := range summary.Jobs {
		switch job.Status {
		case model.StatusSucceeded:
			fmt.Printf("  ok   %s -> %s (%d pages, attempt %d)\n", job.SourcePath, job.Result.OutputPath, job.Result.Pages, job.Attempts)
		case model.StatusFailed:
			fmt.Printf("  fail %s: %s (attempt %d)\n", job.SourcePath, job.Error, job.Attempts)
		default:
			fmt.Printf("  %s %s\n", job.Status, job.SourcePath)
		}
	}
}
