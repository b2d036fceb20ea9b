package source

import "context"

// Connector retrieves the current bytes of a remote spreadsheet resource.
type Connector interface {
	Download(ctx context.Context, sourceID string) ([]byte, error)
}
