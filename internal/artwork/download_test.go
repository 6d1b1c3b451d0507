package artwork

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

func TestDownload(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg-bytes"))
	}))
	t.Cleanup(srv.Close)

	fs := afero.NewMemMapFs()
	d := NewDownloader(fs, srv.Client(), false, false, nil, zerolog.Nop())

	if err := d.Download(context.Background(), srv.URL+"/p.jpg", "/shows/x/poster.jpg"); err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	data, err := afero.ReadFile(fs, "/shows/x/poster.jpg")
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("downloaded content = %q, want jpeg-bytes", data)
	}
}

func TestDownloadSkipsExistingWithoutForce(t *testing.T) {
	t.Parallel()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte("new"))
	}))
	t.Cleanup(srv.Close)

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/poster.jpg", []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	d := NewDownloader(fs, srv.Client(), false, false, nil, zerolog.Nop())
	if err := d.Download(context.Background(), srv.URL+"/p.jpg", "/poster.jpg"); err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if calls.Load() != 0 {
		t.Error("existing artwork was re-downloaded without force")
	}
	data, _ := afero.ReadFile(fs, "/poster.jpg")
	if string(data) != "old" {
		t.Errorf("existing artwork overwritten: %q", data)
	}
}

func TestDownloadOverwritesWithForce(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("new"))
	}))
	t.Cleanup(srv.Close)

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/poster.jpg", []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	d := NewDownloader(fs, srv.Client(), false, true, nil, zerolog.Nop())
	if err := d.Download(context.Background(), srv.URL+"/p.jpg", "/poster.jpg"); err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	data, _ := afero.ReadFile(fs, "/poster.jpg")
	if string(data) != "new" {
		t.Errorf("artwork not overwritten with force: %q", data)
	}
}

func TestDownloadDryRunDoesNothing(t *testing.T) {
	t.Parallel()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(srv.Close)

	fs := afero.NewMemMapFs()
	d := NewDownloader(fs, srv.Client(), true, false, nil, zerolog.Nop())
	if err := d.Download(context.Background(), srv.URL+"/p.jpg", "/poster.jpg"); err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if calls.Load() != 0 {
		t.Error("dry run performed a network request")
	}
	if ok, _ := afero.Exists(fs, "/poster.jpg"); ok {
		t.Error("dry run created a file")
	}
}

func TestDownloadEmptyURLIsNoop(t *testing.T) {
	t.Parallel()
	d := NewDownloader(afero.NewMemMapFs(), nil, false, false, nil, zerolog.Nop())
	if err := d.Download(context.Background(), "", "/poster.jpg"); err != nil {
		t.Errorf("Download(empty url) error = %v, want nil", err)
	}
}

func TestDownloadNon200IsError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	d := NewDownloader(afero.NewMemMapFs(), srv.Client(), false, false, nil, zerolog.Nop())
	if err := d.Download(context.Background(), srv.URL+"/p.jpg", "/poster.jpg"); err == nil {
		t.Error("Download() error = nil, want failure on 404")
	}
}
