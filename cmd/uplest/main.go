package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	appMiddleware "github.com/Halcy0nic/Uplest/internal/api/middlewares"
	"github.com/Halcy0nic/Uplest/internal/app"
	"github.com/Halcy0nic/Uplest/internal/config"
	"github.com/Halcy0nic/Uplest/internal/services"
)

const usage = `usage: uplest <command> [flags]

commands:
  ingest   caption and index every document in a directory
  search   print the entries nearest to a query
  ask      answer a question from the indexed entries
  serve    run the HTTP query API
  token    mint a bearer token for the HTTP API
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// Handle SIGINT/SIGTERM for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "ingest":
		err = runIngest(ctx, args)
	case "search", "ask":
		err = runQuery(ctx, cmd, args)
	case "serve":
		err = runServe(ctx, args)
	case "token":
		err = runToken(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", os.Args[1], err)
	}
}

func runIngest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	cfgPath := fs.String("config", "", "optional YAML config overlay")
	dir := fs.String("dir", "", "input directory (default INPUT_DIR)")
	reset := fs.Bool("reset", false, "drop and recreate the database before ingesting")
	includeText := fs.Bool("include-text", false, "also index DOCX body text and PDF page text")
	fs.Parse(args)

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}

	application, err := app.NewApp(ctx, cfg, *reset)
	if err != nil {
		return err
	}
	defer application.Close()

	runID := time.Now().UTC().Format("20060102T150405Z") + "-" + uuid.NewString()[:8]
	ing, err := application.NewIngestor(ctx, app.IngestOptions{
		InputDir:             *dir,
		IncludeExtractedText: *includeText,
		RunID:                runID,
	})
	if err != nil {
		return err
	}

	sum, err := ing.Run(ctx)
	if err != nil {
		return err
	}
	log.Printf("Run %s: %d files, %d custom records, %d loaded documents, %d entries inserted, %d artifacts archived.",
		runID, sum.Files, sum.CustomRecords, sum.LoadedDocuments, sum.Inserted, sum.Artifacts)
	return nil
}

func runQuery(ctx context.Context, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	cfgPath := fs.String("config", "", "optional YAML config overlay")
	k := fs.Int("k", services.DefaultTopK, "number of entries to retrieve")
	fs.Parse(args)

	query := strings.Join(fs.Args(), " ")

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}
	application, err := app.NewApp(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer application.Close()

	svc := application.SearchService()
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if cmd == "search" {
		hits, err := svc.Search(ctx, query, *k)
		if err != nil {
			return err
		}
		return enc.Encode(hits)
	}

	ans, err := svc.Ask(ctx, query, *k)
	if err != nil {
		return err
	}
	return enc.Encode(ans)
}

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "", "optional YAML config overlay")
	fs.Parse(args)

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}
	application, err := app.NewApp(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer application.Close()

	log.Println("Uplest is running; DB connected and bootstrapped.")
	return application.NewServer().Run(ctx)
}

func runToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	cfgPath := fs.String("config", "", "optional YAML config overlay")
	sub := fs.String("sub", "uplest", "token subject")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	fs.Parse(args)

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}
	tok, err := appMiddleware.GenerateToken(cfg.JWTSecret, *sub, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(tok)
	return nil
}
