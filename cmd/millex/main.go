package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"millex/internal"
	"millex/internal/cart"
	"millex/internal/catalog"
	"millex/internal/config"
	"millex/internal/order"
	"millex/internal/source"
	drivesource "millex/internal/source/drive"
	"millex/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	connector, err := makeConnector(cfg)
	must(err)
	fetcher := catalog.NewFetcher(cfg, db, connector)

	cmd := os.Args[1]
	switch cmd {
	case "catalog:lines":
		for _, src := range cfg.CatalogSources {
			fmt.Printf("%s\t%s\n", src.Name, src.SourceID)
		}
	case "catalog:status":
		snaps, err := db.ListSnapshots()
		must(err)
		if len(snaps) == 0 {
			fmt.Println("no snapshots fetched yet")
			return
		}
		for _, snap := range snaps {
			lastFetch, err := db.GetMetadata(catalog.LastFetchKey(snap.SourceID))
			must(err)
			when := snap.FetchedAt.Format(time.RFC3339)
			if lastFetch != nil {
				when = *lastFetch
			}
			fmt.Printf("%s\t%.12s\t%s\n", snap.SourceID, snap.Hash, when)
		}
	case "catalog:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		lineName := fs.String("line", "", "catalog line name")
		_ = fs.Parse(os.Args[2:])
		src := mustSource(cfg, *lineName)
		snap, err := fetcher.Fetch(context.Background(), src.SourceID)
		must(err)
		state := "fetched"
		if snap.FromCache {
			state = "cached"
		}
		fmt.Printf("%s %s -> %s (hash %.12s)\n", state, src.Name, snap.Path, snap.Hash)
	case "catalog:show":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		lineName := fs.String("line", "", "catalog line name")
		query := fs.String("query", "", "search query")
		page := fs.Int("page", 1, "page number")
		pageSize := fs.Int("page-size", cfg.PageSize, "products per page")
		_ = fs.Parse(os.Args[2:])

		line := mustLoad(fetcher, cfg, *lineName)
		for _, w := range line.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}

		idx := catalog.BuildIndex(line)
		records, servedPage, err := catalog.Paginate(idx.Search(*query), *pageSize, *page)
		must(err)
		if servedPage != *page {
			fmt.Fprintf(os.Stderr, "page %d is out of range, showing page %d\n", *page, servedPage)
		}
		for _, record := range records {
			img := ""
			if record.Image != nil {
				img = " [img]"
			}
			fmt.Printf("%-12s %-40s %10s%s\n", record.Code, record.Name, record.Price.StringFixed(2), img)
		}
	case "order:message":
		c := cartFromArgs(fetcher, cfg, cmd, nil)
		fmt.Println(order.Message(c))
	case "order:link":
		c := cartFromArgs(fetcher, cfg, cmd, nil)
		fmt.Println(order.WhatsAppLink(c, cfg.WhatsAppPhone))
	case "order:pdf":
		var out string
		c := cartFromArgs(fetcher, cfg, cmd, &out)
		blob, err := order.PDF(c)
		must(err)
		must(os.WriteFile(out, blob, 0o644))
		fmt.Printf("wrote %d cart line(s) to %s\n", c.Len(), out)
	case "order:xlsx":
		var out string
		c := cartFromArgs(fetcher, cfg, cmd, &out)
		blob, err := order.XLSX(c)
		must(err)
		must(os.WriteFile(out, blob, 0o644))
		fmt.Printf("wrote %d cart line(s) to %s\n", c.Len(), out)
	case "order:email":
		c := cartFromArgs(fetcher, cfg, cmd, nil)
		must(order.SendEmail(cfg, c))
		fmt.Printf("order emailed to %s\n", cfg.OrderEmailTo)
	default:
		usage()
		os.Exit(1)
	}
}

// cartFromArgs loads a catalog line and builds a cart from --items, e.g.
// --items "A1=2,B5=1". Prices come from the loaded line, the way the page
// snapshots them at add time.
func cartFromArgs(fetcher *catalog.Fetcher, cfg config.Config, cmd string, out *string) *cart.Cart {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	lineName := fs.String("line", "", "catalog line name")
	items := fs.String("items", "", "code=qty pairs, comma separated")
	if out != nil {
		fs.StringVar(out, "out", "", "output path")
	}
	_ = fs.Parse(os.Args[2:])
	if strings.TrimSpace(*items) == "" {
		must(fmt.Errorf("--items is required"))
	}
	if out != nil && strings.TrimSpace(*out) == "" {
		must(fmt.Errorf("--out is required"))
	}

	line := mustLoad(fetcher, cfg, *lineName)
	byCode := make(map[string]internal.ProductRecord, len(line.Records))
	for _, record := range line.Records {
		byCode[record.Code] = record
	}

	c := cart.New()
	for _, pair := range strings.Split(*items, ",") {
		code, qtyRaw, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			must(fmt.Errorf("malformed item %q", pair))
		}
		qty, err := strconv.Atoi(qtyRaw)
		must(err)
		record, found := byCode[code]
		if !found {
			must(fmt.Errorf("unknown product code %q in %s", code, line.Name))
		}
		must(c.SetQuantity(code, internal.LineSnapshot{Name: record.Name, Price: record.Price}, qty))
	}
	return c
}

func mustSource(cfg config.Config, lineName string) config.CatalogSource {
	if strings.TrimSpace(lineName) == "" {
		must(fmt.Errorf("--line is required"))
	}
	src, ok := cfg.SourceFor(lineName)
	if !ok {
		must(fmt.Errorf("unknown catalog line %q", lineName))
	}
	return src
}

func mustLoad(fetcher *catalog.Fetcher, cfg config.Config, lineName string) internal.CatalogLine {
	src := mustSource(cfg, lineName)
	line, err := fetcher.Load(context.Background(), src)
	must(err)
	return line
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

func usage() {
	fmt.Println("usage: millex <command>")
	fmt.Println("commands:")
	fmt.Println("  catalog:lines")
	fmt.Println("  catalog:status")
	fmt.Println("  catalog:fetch --line=\"Línea Perros\"")
	fmt.Println("  catalog:show --line=... [--query=...] [--page=1] [--page-size=45]")
	fmt.Println("  order:message --line=... --items=\"A1=2,B5=1\"")
	fmt.Println("  order:link --line=... --items=...")
	fmt.Println("  order:pdf --line=... --items=... --out=./pedido.pdf")
	fmt.Println("  order:xlsx --line=... --items=... --out=./pedido.xlsx")
	fmt.Println("  order:email --line=... --items=...")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
