package safety

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIndexFetch(t *testing.T) {
	t.Run("decodes metadata", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/requests/json" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"info": {
					"name": "requests",
					"version": "2.31.0",
					"license": "Apache-2.0",
					"author": "Kenneth Reitz",
					"project_urls": {"Source": "https://github.com/psf/requests"}
				},
				"releases": {
					"2.31.0": [{"upload_time": "2023-05-22T15:12:42"}]
				}
			}`))
		}))
		defer srv.Close()

		meta, err := NewIndex(srv.URL).Fetch(context.Background(), "requests")
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if meta.Info.Version != "2.31.0" || meta.Info.License != "Apache-2.0" {
			t.Fatalf("metadata wrong: %+v", meta.Info)
		}
		if meta.Info.SourceURL() != "https://github.com/psf/requests" {
			t.Fatalf("source URL wrong: %q", meta.Info.SourceURL())
		}
		want := time.Date(2023, 5, 22, 15, 12, 42, 0, time.UTC)
		if !meta.FirstUpload().Equal(want) {
			t.Fatalf("first upload = %v, want %v", meta.FirstUpload(), want)
		}
	})

	t.Run("missing package maps to ErrNotFound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		_, err := NewIndex(srv.URL).Fetch(context.Background(), "nope")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("server error is not ErrNotFound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewIndex(srv.URL).Fetch(context.Background(), "requests")
		if err == nil || errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want transport failure", err)
		}
	})
}

func TestFirstUpload(t *testing.T) {
	t.Run("earliest across releases wins", func(t *testing.T) {
		m := &Metadata{Releases: map[string][]ReleaseFile{
			"2.0": {{UploadTime: "2024-01-01T00:00:00"}},
			"1.0": {{UploadTime: "2020-06-15T08:30:00Z"}},
		}}
		want := time.Date(2020, 6, 15, 8, 30, 0, 0, time.UTC)
		if got := m.FirstUpload(); !got.Equal(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("unparseable timestamps skipped", func(t *testing.T) {
		m := &Metadata{Releases: map[string][]ReleaseFile{
			"1.0": {{UploadTime: "not a time"}, {UploadTime: "2021-02-03T04:05:06"}},
		}}
		want := time.Date(2021, 2, 3, 4, 5, 6, 0, time.UTC)
		if got := m.FirstUpload(); !got.Equal(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("no releases yields zero time", func(t *testing.T) {
		if got := (&Metadata{}).FirstUpload(); !got.IsZero() {
			t.Fatalf("got %v, want zero", got)
		}
	})
}
