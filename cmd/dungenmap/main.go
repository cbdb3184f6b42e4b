// Package main is the entry point for dungenmap.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/go-logr/stdr"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/samdwyer/dungenmap/data"
	"github.com/samdwyer/dungenmap/internal/builder"
	"github.com/samdwyer/dungenmap/internal/config"
	"github.com/samdwyer/dungenmap/internal/content"
	"github.com/samdwyer/dungenmap/internal/telemetry"
	"github.com/samdwyer/dungenmap/internal/tiled"
	"github.com/samdwyer/dungenmap/internal/ui"
)

func main() {
	layoutName := flag.String("layout", "demo", "layout to build: a *.layout.json file in the content directory, suffix optional")
	out := flag.String("out", "map.tilemap.json", "where to write the map; - for stdout")
	contentDir := flag.String("content", "", "content directory (default: embedded demo content)")
	preview := flag.Bool("preview", false, "show the finished map in the terminal")
	flag.Parse()

	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	ctx := context.Background()

	// Initialize telemetry
	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		log.Printf("Builds will run without observability")
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if *contentDir != "" {
		cfg.ContentDir = *contentDir
	}
	if cfg.Props.Seed == 0 {
		cfg.Props.Seed = rand.New(rand.NewSource(time.Now().UnixNano())).Int63()
	}

	stdr.SetVerbosity(cfg.LogVerbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags))

	var fsys fs.FS = data.FS()
	if cfg.ContentDir != "" {
		fsys = os.DirFS(cfg.ContentDir)
	}
	catalog, err := content.LoadCatalog(fsys)
	if err != nil {
		log.Fatalf("Failed to load content: %v", err)
	}
	l, err := content.LoadLayout(fsys, *layoutName)
	if err != nil {
		log.Fatalf("Failed to load layout: %v", err)
	}

	buildID := uuid.NewString()
	b := builder.New(
		builder.WithLogger(logger.WithValues("build", buildID)),
		builder.WithBuildID(buildID),
	)
	d, seed, err := b.BuildWithRetry(ctx, l, catalog, cfg.Props, cfg.MaxAttempts)
	if err != nil {
		log.Fatalf("Build failed: %v", err)
	}

	if err := write(*out, d); err != nil {
		log.Fatalf("Failed to write map: %v", err)
	}
	logger.Info("map written", "out", *out, "seed", seed,
		"fingerprint", fmt.Sprintf("%016x", tiled.Fingerprint(d.Map)))

	if *preview {
		if err := runPreview(d, catalog, seed); err != nil {
			log.Fatalf("Preview failed: %v", err)
		}
	}
}

func write(path string, d *builder.Dungeon) error {
	out, err := json.MarshalIndent(d, "", " ")
	if err != nil {
		return err
	}
	if path == "-" {
		_, err = os.Stdout.Write(append(out, '\n'))
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

func runPreview(d *builder.Dungeon, catalog *content.Catalog, seed int64) error {
	screen, err := ui.NewScreen()
	if err != nil {
		return err
	}
	defer screen.Close()

	status := fmt.Sprintf("seed %d  rooms %d  q to quit", seed, len(d.Rooms))
	ui.NewPreview(screen, d.Map, ui.NewPalette(d.TileSets, catalog.TileSets), status).Run()
	return nil
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}

	// The .env file may hold an unexpanded variable reference, so the
	// headers are built here.
	apiKey := os.Getenv("HONEYCOMB_DUNGENMAP_API_KEY")
	dataset := os.Getenv("HONEYCOMB_DUNGENMAP_DATASET")
	if dataset == "" {
		dataset = "dungenmap"
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
