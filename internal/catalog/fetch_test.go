package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"millex/internal"
	"millex/internal/config"
	"millex/internal/storage"
)

type fakeConnector struct {
	blob  []byte
	err   error
	calls int
}

func (f *fakeConnector) Download(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.blob, nil
}

func testFetcher(t *testing.T, conn *fakeConnector, ttlMin int) (*Fetcher, *storage.DB) {
	t.Helper()
	tmp := t.TempDir()
	cfg, _ := config.Load()
	cfg.CacheDir = filepath.Join(tmp, "snapshots")
	cfg.SnapshotTTLMin = ttlMin

	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewFetcher(cfg, db, conn), db
}

func TestFetchWritesAndReusesSnapshot(t *testing.T) {
	conn := &fakeConnector{blob: []byte("payload")}
	fetcher, _ := testFetcher(t, conn, 15)

	first, err := fetcher.Fetch(context.Background(), "sheet-1")
	if err != nil {
		t.Fatal(err)
	}
	if first.FromCache {
		t.Fatal("first fetch must hit the remote")
	}

	second, err := fetcher.Fetch(context.Background(), "sheet-1")
	if err != nil {
		t.Fatal(err)
	}
	if !second.FromCache {
		t.Fatal("second fetch within TTL must come from cache")
	}
	if conn.calls != 1 {
		t.Fatalf("connector called %d times", conn.calls)
	}
	if second.Hash != first.Hash {
		t.Fatalf("hash changed: %s vs %s", first.Hash, second.Hash)
	}
}

func TestFetchZeroTTLAlwaysRefetches(t *testing.T) {
	conn := &fakeConnector{blob: []byte("payload")}
	fetcher, _ := testFetcher(t, conn, 0)

	for i := 0; i < 2; i++ {
		if _, err := fetcher.Fetch(context.Background(), "sheet-1"); err != nil {
			t.Fatal(err)
		}
	}
	if conn.calls != 2 {
		t.Fatalf("connector called %d times, want 2", conn.calls)
	}
}

func TestFetchSurfacesConnectorError(t *testing.T) {
	conn := &fakeConnector{err: &internal.FetchError{SourceID: "sheet-1", Status: 503}}
	fetcher, _ := testFetcher(t, conn, 15)

	_, err := fetcher.Fetch(context.Background(), "sheet-1")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadEndToEnd(t *testing.T) {
	blob := mkXLSX(t, [][]any{
		{}, {},
		{nil, "A1", "Collar", "$10"},
		{nil, "A2", "Correa", "$20"},
	})
	conn := &fakeConnector{blob: blob}
	fetcher, _ := testFetcher(t, conn, 15)

	line, err := fetcher.Load(context.Background(), config.CatalogSource{Name: "Línea Perros", SourceID: "sheet-1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(line.Records) != 2 || line.Name != "Línea Perros" {
		t.Fatalf("unexpected line: %+v", line)
	}
}

func TestLoadPublishedHTML(t *testing.T) {
	html := `<html><body><table>
<tr><td>Catálogo</td></tr>
<tr><td></td></tr>
<tr><td></td><td>A1</td><td>Collar</td><td>$10</td></tr>
<tr><td></td><td>A2</td><td>Ración</td><td>$20</td></tr>
<tr><td></td><td></td><td></td><td></td></tr>
</table></body></html>`
	conn := &fakeConnector{blob: []byte(html)}
	fetcher, _ := testFetcher(t, conn, 15)

	line, err := fetcher.Load(context.Background(), config.CatalogSource{Name: "Línea Perros", SourceID: "sheet-1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(line.Records) != 2 {
		t.Fatalf("records: %+v", line.Records)
	}
	if line.Records[1].Name != "Ración" || !line.Records[1].Price.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("second record: %+v", line.Records[1])
	}
}

func TestFetchRecordsLastFetchMetadata(t *testing.T) {
	conn := &fakeConnector{blob: []byte("payload")}
	fetcher, db := testFetcher(t, conn, 15)

	snap, err := fetcher.Fetch(context.Background(), "sheet-1")
	if err != nil {
		t.Fatal(err)
	}

	value, err := db.GetMetadata(LastFetchKey("sheet-1"))
	if err != nil {
		t.Fatal(err)
	}
	if value == nil {
		t.Fatal("last-fetch metadata not recorded")
	}
	if *value != snap.FetchedAt.Format(time.RFC3339) {
		t.Fatalf("metadata %q does not match snapshot time %v", *value, snap.FetchedAt)
	}

	// A cache hit is not a remote pull; the marker must not move.
	if _, err := fetcher.Fetch(context.Background(), "sheet-1"); err != nil {
		t.Fatal(err)
	}
	again, err := db.GetMetadata(LastFetchKey("sheet-1"))
	if err != nil {
		t.Fatal(err)
	}
	if again == nil || *again != *value {
		t.Fatalf("cache hit moved the last-fetch marker: %v vs %v", again, value)
	}
}
