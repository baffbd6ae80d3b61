package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"dailies/internal/config"
	"dailies/internal/services"
)

func TestConnectUnreachableIsNotFound(t *testing.T) {
	cfg := config.Editor{URL: "http://127.0.0.1:1"} // nothing listens here
	_, err := NewClient(cfg).Connect(context.Background())
	if err == nil {
		t.Fatal("expected connect failure")
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected NotFound kind, got %v", err)
	}
}

func TestConnectMissingURLIsConfiguration(t *testing.T) {
	_, err := NewClient(config.Editor{}).Connect(context.Background())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected Configuration kind, got %v", err)
	}
}

func TestSessionFlow(t *testing.T) {
	var gotAuth string
	var binNames []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /api/projects", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("POST /api/projects/{name}/bins", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		binNames = append(binNames, body.Name)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /api/projects/{name}/import", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Paths []string `json:"paths"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]int{"imported": len(body.Paths)})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(config.Editor{URL: server.URL, APIKey: "secret"})
	session, err := client.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}

	ctx := context.Background()
	if err := session.EnsureProject(ctx, "alpha-20260104_Import"); err != nil {
		t.Fatalf("EnsureProject: %v", err)
	}
	if err := session.CreateBin(ctx, "alpha-20260104_Import", "Originals"); err != nil {
		t.Fatalf("CreateBin: %v", err)
	}
	if len(binNames) != 1 || binNames[0] != "Originals" {
		t.Fatalf("unexpected bins %v", binNames)
	}

	imported, err := session.ImportMedia(ctx, "alpha-20260104_Import", "Originals", []string{"/a.mov", "/b.mov"})
	if err != nil {
		t.Fatalf("ImportMedia: %v", err)
	}
	if imported != 2 {
		t.Fatalf("expected 2 imported, got %d", imported)
	}

	if n, err := session.ImportMedia(ctx, "p", "b", nil); err != nil || n != 0 {
		t.Fatalf("empty import should be a no-op, got %d %v", n, err)
	}
}

func TestSessionErrorsTaggedExternalTool(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/status" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	session, err := NewClient(config.Editor{URL: server.URL}).Connect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	err = session.EnsureProject(context.Background(), "p")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool kind, got %v", err)
	}
}
