// Package fetcher downloads and parses survey data published over HTTP and
// FTP in the formats the Indian statistical portals actually serve: CSV
// (often Latin-1 encoded), XLSX workbooks, data.gov.in JSON payloads, and
// zipped CSV bundles.
package fetcher

import (
	"context"
	"io"
)

// Fetcher retrieves a remote resource as a byte stream.
type Fetcher interface {
	// Fetch retrieves the URL and returns the response body.
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)

	// FetchToFile retrieves the URL and writes it to path. Returns bytes written.
	FetchToFile(ctx context.Context, url string, path string) (int64, error)
}
