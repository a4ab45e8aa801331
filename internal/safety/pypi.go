// Package safety vets Python dependencies against their PyPI metadata:
// typosquatting against well-known package names, license compatibility,
// and supply-chain risk indicators such as package age and release history.
package safety

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const defaultIndexURL = "https://pypi.org/pypi"

// ErrNotFound reports a package name that does not exist on the index.
var ErrNotFound = errors.New("package not found")

// Metadata is the slice of the PyPI JSON API response the checks consume.
type Metadata struct {
	Info     PackageInfo              `json:"info"`
	Releases map[string][]ReleaseFile `json:"releases"`
}

type PackageInfo struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Summary     string            `json:"summary"`
	License     string            `json:"license"`
	Author      string            `json:"author"`
	Maintainer  string            `json:"maintainer"`
	Homepage    string            `json:"home_page"`
	ProjectURLs map[string]string `json:"project_urls"`
}

type ReleaseFile struct {
	UploadTime string `json:"upload_time"`
}

// Index fetches package metadata from a PyPI-compatible JSON API.
type Index struct {
	baseURL string
	http    *http.Client
}

// NewIndex builds an Index against pypi.org. baseURL overrides the endpoint
// when non-empty (tests, private mirrors).
func NewIndex(baseURL string) *Index {
	if baseURL == "" {
		baseURL = defaultIndexURL
	}
	return &Index{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch retrieves metadata for one package. A 404 maps to ErrNotFound so
// callers can distinguish "no such package" from transport failures.
func (ix *Index) Fetch(ctx context.Context, name string) (*Metadata, error) {
	url := fmt.Sprintf("%s/%s/json", ix.baseURL, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build metadata request: %w", err)
	}

	resp, err := ix.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata for %s: %w", name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch metadata for %s: unexpected status %s", name, resp.Status)
	}

	var meta Metadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("decode metadata for %s: %w", name, err)
	}
	return &meta, nil
}

// SourceURL returns the linked source repository, if any.
func (pi PackageInfo) SourceURL() string {
	if u := pi.ProjectURLs["Source"]; u != "" {
		return u
	}
	return pi.ProjectURLs["Repository"]
}

// HomepageURL returns the homepage, falling back to the project URL entry.
func (pi PackageInfo) HomepageURL() string {
	if pi.Homepage != "" {
		return pi.Homepage
	}
	return pi.ProjectURLs["Homepage"]
}

// uploadTimeLayouts covers both timestamp shapes the index emits.
var uploadTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

// FirstUpload returns the earliest file upload across all releases, or the
// zero time when no parseable timestamp exists.
func (m *Metadata) FirstUpload() time.Time {
	var first time.Time
	for _, files := range m.Releases {
		for _, f := range files {
			t, ok := parseUploadTime(f.UploadTime)
			if !ok {
				continue
			}
			if first.IsZero() || t.Before(first) {
				first = t
			}
		}
	}
	return first
}

func parseUploadTime(s string) (time.Time, bool) {
	for _, layout := range uploadTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
