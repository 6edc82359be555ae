// Package loader turns declared sources — local files, HTTP and FTP
// downloads, portal APIs, warehouse queries — into normalized datasets.
// A source that cannot be read or parsed yields a LoadFailure the caller
// checks; it never aborts sibling sources.
package loader

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bharatstats/amenities-cli/internal/dataset"
	"github.com/bharatstats/amenities-cli/internal/fetcher"
	"github.com/bharatstats/amenities-cli/internal/model"
)

// Format identifies how a source's bytes are parsed into a table.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatJSON   Format = "json"   // plain JSON array of records
	FormatPortal Format = "portal" // data.gov.in resource envelope
)

// ParseFormat maps a config string to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatPortal:
		return FormatPortal, nil
	}
	return "", eris.Errorf("loader: unknown format %q", s)
}

// Source declares one external table to load.
type Source struct {
	Name     string `yaml:"name" mapstructure:"name"`
	Format   string `yaml:"format" mapstructure:"format"`
	Location string `yaml:"location" mapstructure:"location"` // file path or URL
	// Fallback names a second format to try when the declared one fails to
	// parse. Empty picks the conventional alternate (csv<->xlsx,
	// json<->portal). At most one fallback attempt is made.
	Fallback string              `yaml:"fallback" mapstructure:"fallback"`
	CSV      fetcher.CSVOptions  `yaml:"-" mapstructure:"-"`
	XLSX     fetcher.XLSXOptions `yaml:"-" mapstructure:"-"`
}

// LoadFailure reports a source that could not be loaded. It carries the
// source name so callers can say which input went missing.
type LoadFailure struct {
	Source string
	Err    error
}

func (e *LoadFailure) Error() string {
	return fmt.Sprintf("load source %q: %v", e.Source, e.Err)
}

func (e *LoadFailure) Unwrap() error { return e.Err }

// Loader reads sources and normalizes them.
type Loader struct {
	http *fetcher.HTTPFetcher
	ftp  *fetcher.FTPFetcher
	norm *dataset.Normalizer
	log  *zap.Logger
}

// Options configures a Loader.
type Options struct {
	HTTP    fetcher.HTTPOptions
	Timeout time.Duration
	// Aliases extends the normalizer's column alias table.
	Aliases map[string]string
}

// New creates a Loader.
func New(opts Options) *Loader {
	if opts.Timeout != 0 && opts.HTTP.Timeout == 0 {
		opts.HTTP.Timeout = opts.Timeout
	}
	return &Loader{
		http: fetcher.NewHTTPFetcher(opts.HTTP),
		ftp:  fetcher.NewFTPFetcher(fetcher.FTPOptions{Timeout: opts.Timeout}),
		norm: dataset.NewNormalizer(opts.Aliases),
		log:  zap.L().With(zap.String("component", "loader")),
	}
}

// Load reads one source, trying its declared format and then at most one
// fallback format, and normalizes the result. On failure the returned error
// is a *LoadFailure wrapping the cause of the last attempt.
func (l *Loader) Load(ctx context.Context, src Source) (model.Dataset, dataset.Report, error) {
	format, err := ParseFormat(src.Format)
	if err != nil {
		return model.Dataset{}, dataset.Report{}, &LoadFailure{Source: src.Name, Err: err}
	}

	table, firstErr := l.readTable(ctx, src, format)
	if firstErr != nil {
		fb, fbErr := fallbackFormat(src, format)
		if fbErr != nil {
			return model.Dataset{}, dataset.Report{}, &LoadFailure{Source: src.Name, Err: firstErr}
		}
		l.log.Warn("source failed, trying fallback format",
			zap.String("source", src.Name),
			zap.String("format", string(format)),
			zap.String("fallback", string(fb)),
			zap.Error(firstErr),
		)
		table, err = l.readTable(ctx, src, fb)
		if err != nil {
			return model.Dataset{}, dataset.Report{}, &LoadFailure{Source: src.Name, Err: err}
		}
	}

	d, report := l.norm.Normalize(table)
	l.log.Info("source loaded",
		zap.String("source", src.Name),
		zap.Int("rows", report.SourceRows),
		zap.Int("kept", report.Kept),
		zap.Int("dropped", report.Dropped()),
	)
	return d, report, nil
}

func fallbackFormat(src Source, tried Format) (Format, error) {
	if src.Fallback != "" {
		fb, err := ParseFormat(src.Fallback)
		if err != nil {
			return "", err
		}
		if fb == tried {
			return "", eris.New("loader: fallback same as primary format")
		}
		return fb, nil
	}
	switch tried {
	case FormatCSV:
		return FormatXLSX, nil
	case FormatXLSX:
		return FormatCSV, nil
	case FormatJSON:
		return FormatPortal, nil
	case FormatPortal:
		return FormatJSON, nil
	}
	return "", eris.Errorf("loader: no fallback for format %q", tried)
}

func (l *Loader) readTable(ctx context.Context, src Source, format Format) (model.Table, error) {
	switch format {
	case FormatXLSX:
		// The xlsx reader needs a seekable file.
		path, cleanup, err := l.localPath(ctx, src.Location)
		if err != nil {
			return model.Table{}, err
		}
		defer cleanup()
		return fetcher.ReadXLSXTable(path, src.XLSX)
	default:
		r, err := l.open(ctx, src.Location)
		if err != nil {
			return model.Table{}, err
		}
		defer r.Close() //nolint:errcheck
		switch format {
		case FormatCSV:
			return fetcher.ReadCSVTable(r, src.CSV)
		case FormatJSON:
			return fetcher.ReadJSONTable(r)
		case FormatPortal:
			return fetcher.ReadPortalTable(r)
		}
		return model.Table{}, eris.Errorf("loader: unhandled format %q", format)
	}
}

// open returns a reader for a location: http(s) and ftp URLs are fetched,
// anything else is a local path. Zip archives yield their first CSV entry.
func (l *Loader) open(ctx context.Context, location string) (io.ReadCloser, error) {
	switch scheme(location) {
	case "http", "https":
		return l.http.Fetch(ctx, location)
	case "ftp":
		return l.ftp.Fetch(ctx, location)
	}
	if strings.EqualFold(filepath.Ext(location), ".zip") {
		return fetcher.OpenZipEntry(location, ".csv")
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: open %s", location)
	}
	return f, nil
}

// localPath returns a local file path for a location, downloading remote
// URLs into a temp file first. cleanup removes any temp file.
func (l *Loader) localPath(ctx context.Context, location string) (string, func(), error) {
	switch scheme(location) {
	case "http", "https", "ftp":
		tmp, err := os.CreateTemp("", "amenities-*.xlsx")
		if err != nil {
			return "", nil, eris.Wrap(err, "loader: create temp file")
		}
		_ = tmp.Close()
		var f fetcher.Fetcher = l.http
		if scheme(location) == "ftp" {
			f = l.ftp
		}
		if _, err := f.FetchToFile(ctx, location, tmp.Name()); err != nil {
			_ = os.Remove(tmp.Name())
			return "", nil, err
		}
		return tmp.Name(), func() { _ = os.Remove(tmp.Name()) }, nil
	}
	return location, func() {}, nil
}

func scheme(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return u.Scheme
}
