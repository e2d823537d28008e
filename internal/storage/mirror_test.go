package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/diewo77/go-multidoc/internal/config"
)

func TestNewMirrorDisabled(t *testing.T) {
	m, err := NewMirror(config.MirrorConfig{})
	if err != nil {
		t.Fatalf("NewMirror: %v", err)
	}
	if _, ok := m.(NopMirror); !ok {
		t.Fatalf("expected NopMirror, got %T", m)
	}
	if err := m.Put(context.Background(), "k", "/nowhere", "text/plain"); err != nil {
		t.Errorf("nop Put: %v", err)
	}
}

func TestMinioMirrorPublicURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.MirrorConfig
		key      string
		expected string
	}{
		{
			name:     "http url",
			cfg:      config.MirrorConfig{Endpoint: "localhost:9000", Bucket: "archives"},
			key:      "archives/thirdparty_1/a.odt",
			expected: "http://localhost:9000/archives/archives/thirdparty_1/a.odt",
		},
		{
			name:     "https url",
			cfg:      config.MirrorConfig{Endpoint: "s3.example.com", Bucket: "docs", UseSSL: true},
			key:      "x.pdf",
			expected: "https://s3.example.com/docs/x.pdf",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMinioMirror(tt.cfg)
			if err != nil {
				t.Fatalf("NewMinioMirror: %v", err)
			}
			if got := m.PublicURL(tt.key); got != tt.expected {
				t.Errorf("PublicURL = %q, want %q", got, tt.expected)
			}
		})
	}
}

type recordedRequest struct {
	method string
	path   string
	body   string
}

func fakeS3(t *testing.T) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := new(strings.Builder)
		if r.Body != nil {
			buf := make([]byte, 1024)
			for {
				n, err := r.Body.Read(buf)
				b.Write(buf[:n])
				if err != nil {
					break
				}
			}
		}
		mu.Lock()
		reqs = append(reqs, recordedRequest{r.Method, r.URL.Path, b.String()})
		mu.Unlock()
		switch r.Method {
		case http.MethodPut:
			w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func TestMinioMirrorPutAndDelete(t *testing.T) {
	srv, reqs := fakeS3(t)
	m, err := NewMinioMirror(config.MirrorConfig{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "docs",
		Region:    "us-east-1",
	})
	if err != nil {
		t.Fatalf("NewMinioMirror: %v", err)
	}

	path := filepath.Join(t.TempDir(), "a.odt")
	if err := os.WriteFile(path, []byte("odt bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := m.Put(ctx, "archives/thirdparty_1/a.odt", path, "application/vnd.oasis.opendocument.text"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := m.Delete(ctx, "archives/thirdparty_1/a.odt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var sawPut, sawDelete bool
	for _, r := range *reqs {
		if r.path != "/docs/archives/thirdparty_1/a.odt" {
			continue
		}
		switch r.method {
		case http.MethodPut:
			sawPut = strings.Contains(r.body, "odt bytes")
		case http.MethodDelete:
			sawDelete = true
		}
	}
	if !sawPut || !sawDelete {
		t.Errorf("requests = %+v", *reqs)
	}
}
