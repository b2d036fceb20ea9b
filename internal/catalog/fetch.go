package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"millex/internal"
	"millex/internal/config"
	"millex/internal/source"
	"millex/internal/storage"
)

// Fetcher retrieves spreadsheet payloads and keeps a transient local cache of
// them, keyed by source ID. A snapshot younger than the configured TTL is
// served without a remote request; freshness is a best effort, not a contract.
type Fetcher struct {
	cfg       config.Config
	db        *storage.DB
	connector source.Connector
}

func NewFetcher(cfg config.Config, db *storage.DB, connector source.Connector) *Fetcher {
	return &Fetcher{cfg: cfg, db: db, connector: connector}
}

func (f *Fetcher) Fetch(ctx context.Context, sourceID string) (internal.Snapshot, error) {
	if cached := f.lookupFresh(sourceID); cached != nil {
		return *cached, nil
	}

	blob, err := f.connector.Download(ctx, sourceID)
	if err != nil {
		return internal.Snapshot{}, err
	}

	if err := os.MkdirAll(f.cfg.CacheDir, 0o755); err != nil {
		return internal.Snapshot{}, &internal.FetchError{SourceID: sourceID, Err: err}
	}

	hashBytes := sha256.Sum256(blob)
	snap := internal.Snapshot{
		SourceID:  sourceID,
		Path:      filepath.Join(f.cfg.CacheDir, sourceID+".xlsx"),
		Hash:      hex.EncodeToString(hashBytes[:]),
		FetchedAt: time.Now().UTC(),
	}
	if err := os.WriteFile(snap.Path, blob, 0o644); err != nil {
		return internal.Snapshot{}, &internal.FetchError{SourceID: sourceID, Err: err}
	}
	if err := f.db.UpsertSnapshot(snap); err != nil {
		return internal.Snapshot{}, &internal.FetchError{SourceID: sourceID, Err: err}
	}
	if err := f.db.SetMetadata(LastFetchKey(sourceID), snap.FetchedAt.Format(time.RFC3339)); err != nil {
		return internal.Snapshot{}, &internal.FetchError{SourceID: sourceID, Err: err}
	}

	return snap, nil
}

// LastFetchKey names the metadata entry recording when a source was last
// pulled from the remote, as opposed to served from cache.
func LastFetchKey(sourceID string) string {
	return "catalog.last_fetch." + sourceID
}

func (f *Fetcher) lookupFresh(sourceID string) *internal.Snapshot {
	if f.cfg.SnapshotTTLMin <= 0 {
		return nil
	}
	snap, err := f.db.GetSnapshot(sourceID)
	if err != nil || snap == nil {
		return nil
	}
	if time.Since(snap.FetchedAt) > time.Duration(f.cfg.SnapshotTTLMin)*time.Minute {
		return nil
	}
	if _, err := os.Stat(snap.Path); err != nil {
		return nil
	}
	snap.FromCache = true
	return snap
}

// Load runs the full fetch-and-parse cycle for one configured catalog line.
// Sheets published to the web answer with an HTML document instead of a
// workbook; the payload is sniffed so both formats load transparently.
func (f *Fetcher) Load(ctx context.Context, src config.CatalogSource) (internal.CatalogLine, error) {
	snap, err := f.Fetch(ctx, src.SourceID)
	if err != nil {
		return internal.CatalogLine{}, err
	}
	blob, err := os.ReadFile(snap.Path)
	if err != nil {
		return internal.CatalogLine{}, &internal.FetchError{SourceID: src.SourceID, Err: err}
	}
	if isHTMLPayload(blob) {
		return ParseHTML(string(blob), src)
	}
	return Parse(blob, src, "")
}
