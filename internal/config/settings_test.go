package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.FetcherBackend != BackendHTTP {
		t.Errorf("FetcherBackend = %q, want %q", settings.FetcherBackend, BackendHTTP)
	}
	if settings.MaxConcurrentDownloads < 1 {
		t.Errorf("MaxConcurrentDownloads = %d", settings.MaxConcurrentDownloads)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	settings := DefaultSettings()
	settings.FetcherBackend = BackendBrowser
	settings.RequestInterval = 2.5
	settings.LogLevel = "debug"

	if err := settings.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.FetcherBackend != BackendBrowser {
		t.Errorf("FetcherBackend = %q", loaded.FetcherBackend)
	}
	if loaded.RequestInterval != 2.5 {
		t.Errorf("RequestInterval = %v", loaded.RequestInterval)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", loaded.LogLevel)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"log_level": "warning"}`), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if settings.LogLevel != "warning" {
		t.Errorf("LogLevel = %q", settings.LogLevel)
	}
	// untouched keys keep their defaults
	if settings.FetcherBackend != BackendHTTP {
		t.Errorf("FetcherBackend = %q", settings.FetcherBackend)
	}
	if settings.DownloadMaxRetries == 0 {
		t.Error("DownloadMaxRetries lost its default")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{name: "defaults valid", mutate: func(*Settings) {}},
		{name: "bad backend", mutate: func(s *Settings) { s.FetcherBackend = "carrier-pigeon" }, wantErr: true},
		{name: "zero concurrency", mutate: func(s *Settings) { s.MaxConcurrentDownloads = 0 }, wantErr: true},
		{name: "bad log level", mutate: func(s *Settings) { s.LogLevel = "chatty" }, wantErr: true},
		{name: "bad playlist format", mutate: func(s *Settings) { s.PlaylistFormat = "xspf" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			tt.mutate(settings)
			err := settings.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestClientOptions(t *testing.T) {
	settings := DefaultSettings()
	settings.RequestTimeout = 10
	settings.RequestInterval = 1.5

	opts := settings.ClientOptions()
	if opts.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", opts.Timeout)
	}
	if opts.RequestInterval != 1500*time.Millisecond {
		t.Errorf("RequestInterval = %v", opts.RequestInterval)
	}
}

func TestLogger(t *testing.T) {
	settings := DefaultSettings()
	settings.LogLevel = "debug"
	if got := settings.Logger().GetLevel(); got != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", got)
	}

	settings.LogLevel = "nonsense"
	if got := settings.Logger().GetLevel(); got != logrus.InfoLevel {
		t.Errorf("level = %v, want info fallback", got)
	}
}
