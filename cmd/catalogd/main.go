package main

import (
	"fmt"
	"os"
	"strings"

	"millex/internal/catalog"
	"millex/internal/config"
	"millex/internal/server"
	"millex/internal/source"
	drivesource "millex/internal/source/drive"
	"millex/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "storage: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	connector, err := makeConnector(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connector: %v\n", err)
		os.Exit(1)
	}

	fetcher := catalog.NewFetcher(cfg, db, connector)
	srv := server.New(cfg, fetcher)

	fmt.Printf("catalogd serving %d catalog line(s) via %s connector\n",
		len(cfg.CatalogSources), cfg.SourceConnector)
	if err := srv.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func makeConnector(cfg config.Config) (source.Connector, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.SourceConnector)) {
	case "export":
		return source.NewExportConnector(cfg), nil
	case "drive":
		return drivesource.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported source connector: %s", cfg.SourceConnector)
	}
}
