package fetcher

import (
	"archive/zip"
	"io"
	"path"
	"strings"

	"github.com/rotisserie/eris"
)

// OpenZipEntry opens the archive at zipPath and returns a reader for the
// first entry whose name has the given extension (e.g. ".csv"). Portal
// bulk downloads wrap a single data file in a zip alongside a readme.
func OpenZipEntry(zipPath, ext string) (io.ReadCloser, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, eris.Wrap(err, "zip: open archive")
	}

	for _, f := range zr.File {
		if strings.EqualFold(path.Ext(f.Name), ext) {
			rc, err := f.Open()
			if err != nil {
				_ = zr.Close()
				return nil, eris.Wrapf(err, "zip: open entry %s", f.Name)
			}
			return &zipEntryReader{ReadCloser: rc, archive: zr}, nil
		}
	}

	_ = zr.Close()
	return nil, eris.Errorf("zip: no %s entry in %s", ext, zipPath)
}

// zipEntryReader closes the archive along with the entry.
type zipEntryReader struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (z *zipEntryReader) Close() error {
	entryErr := z.ReadCloser.Close()
	archiveErr := z.archive.Close()
	if entryErr != nil {
		return entryErr
	}
	return archiveErr
}
