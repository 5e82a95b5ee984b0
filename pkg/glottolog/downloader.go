package glottolog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// maxDumpSize caps the download; the full geo dump is a few MB.
const maxDumpSize = 64 * 1024 * 1024

// Downloader fetches the Glottolog geo dump.
type Downloader struct {
	Client *http.Client
	Logger *zap.Logger
}

// NewDownloader returns a Downloader with a 60s client timeout.
func NewDownloader(logger *zap.Logger) *Downloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Downloader{
		Client: &http.Client{Timeout: 60 * time.Second},
		Logger: logger,
	}
}

// Ensure downloads url to path unless path already exists. It reports
// whether a download happened.
func (d *Downloader) Ensure(ctx context.Context, url, path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		d.Logger.Info("gazetteer present, skipping download", zap.String("path", path))
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}

	d.Logger.Info("downloading gazetteer", zap.String("url", url), zap.String("path", path))
	if err := d.download(ctx, url, path); err != nil {
		return false, err
	}
	return true, nil
}

func (d *Downloader) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "bonmannsymmetrical-cldf")

	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %s", url, resp.Status)
	}
	if resp.ContentLength > maxDumpSize {
		return fmt.Errorf("fetch %s: content length %d exceeds %d bytes", url, resp.ContentLength, maxDumpSize)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	// path only appears after a complete, valid download.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".glottolog-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, io.LimitReader(resp.Body, maxDumpSize+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if n > maxDumpSize {
		return fmt.Errorf("fetch %s: body exceeds %d bytes", url, maxDumpSize)
	}

	if _, err := Open(tmp.Name()); err != nil {
		return fmt.Errorf("downloaded gazetteer is invalid: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
