// Package fetcher acquires the tabular ZIP-code input from a local CSV/XLSX
// path or a remote ftp:// or http(s):// URL.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Rows loads the input table from source, header row first. Remote sources
// are downloaded to a temp file first; format dispatch is by the .xlsx
// extension, everything else parses as CSV.
func Rows(ctx context.Context, source string) ([][]string, error) {
	path := source
	if remote(source) {
		tmp, cleanup, err := download(ctx, source)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		path = tmp
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path, XLSXOptions{})
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open input %s", path)
	}
	defer func() { _ = f.Close() }()

	return ReadCSV(f)
}

func remote(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "ftp", "http", "https":
		return true
	}
	return false
}

// download fetches a remote source into a temp file that keeps the source's
// extension, so format dispatch still works.
func download(ctx context.Context, source string) (path string, cleanup func(), err error) {
	tmp, err := os.CreateTemp("", "sitescout-input-*"+filepath.Ext(source))
	if err != nil {
		return "", nil, eris.Wrap(err, "fetcher: create temp file")
	}
	_ = tmp.Close()
	path = tmp.Name()
	cleanup = func() { _ = os.Remove(path) }

	var fetch interface {
		DownloadToFile(ctx context.Context, url, path string) (int64, error)
	}
	if strings.HasPrefix(source, "ftp://") {
		fetch = NewFTPFetcher(FTPOptions{})
	} else {
		fetch = NewHTTPFetcher(HTTPOptions{})
	}

	if _, err := fetch.DownloadToFile(ctx, source, path); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

// drain copies a download stream to a file. Returns bytes written.
func drain(rc io.ReadCloser, path string) (int64, error) {
	defer func() { _ = rc.Close() }()

	file, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrap(err, "fetcher: create file")
	}
	defer func() { _ = file.Close() }()

	n, err := io.Copy(file, rc)
	if err != nil {
		return n, eris.Wrap(err, "fetcher: write file")
	}
	return n, nil
}
