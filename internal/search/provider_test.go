package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const duckDuckGoPage = `<html><body>
<div class="result"><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Facme.de%2Fkontakt&rut=abc">Acme Kontakt</a></div>
<div class="result"><a class="result__a" href="https://www.linkedin.com/company/acme">Acme LinkedIn</a></div>
<div class="result"><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Facme.de%2Fkontakt">Duplicate</a></div>
<div class="result"><a class="result__a" href="javascript:void(0)">Broken</a></div>
<div class="result"><a class="result__a" href="https://acme.de/impressum">Acme Impressum</a></div>
</body></html>`

const googlePage = `<html><body>
<a href="/preferences">Settings</a>
<div id="search">
<a href="/url?q=https://acme.de/contact&sa=U">Acme Contact</a>
<a href="https://maps.google.com/maps?q=acme">Maps</a>
<a href="https://acme.com/about">About Acme</a>
</div>
</body></html>`

// TestDuckDuckGoSearch tests result parsing and limits.
func TestDuckDuckGoSearch(t *testing.T) {
	t.Parallel()

	t.Run("decodes redirect links and respects the limit", func(t *testing.T) {
		t.Parallel()

		queries := make(chan string, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			queries <- r.URL.Query().Get("q")
			_, _ = w.Write([]byte(duckDuckGoPage))
		}))
		defer server.Close()

		p := NewDuckDuckGo(server.Client(), server.URL+"/html/")
		got, err := p.Search(context.Background(), "Acme contact email", 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{
			"https://acme.de/kontakt",
			"https://www.linkedin.com/company/acme",
			"https://acme.de/impressum",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
		if q := <-queries; q != "Acme contact email" {
			t.Errorf("unexpected query %q", q)
		}
	})

	t.Run("HTTP 429 is a rate-limit error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := NewDuckDuckGo(server.Client(), server.URL).Search(context.Background(), "q", 3)
		if !errors.Is(err, ErrRateLimited) {
			t.Errorf("expected ErrRateLimited, got %v", err)
		}
	})

	t.Run("challenge page is a rate-limit error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`<div class="anomaly-modal__title">Unfortunately, bots use DuckDuckGo too.</div>`))
		}))
		defer server.Close()

		_, err := NewDuckDuckGo(server.Client(), server.URL).Search(context.Background(), "q", 3)
		if !errors.Is(err, ErrRateLimited) {
			t.Errorf("expected ErrRateLimited, got %v", err)
		}
	})

	t.Run("server error is a search error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := NewDuckDuckGo(server.Client(), server.URL).Search(context.Background(), "q", 3)
		var searchErr *Error
		if !errors.As(err, &searchErr) {
			t.Fatalf("expected *Error, got %v", err)
		}
		if searchErr.StatusCode != http.StatusInternalServerError {
			t.Errorf("unexpected status %d", searchErr.StatusCode)
		}
		if errors.Is(err, ErrRateLimited) {
			t.Error("server error must not be treated as rate limiting")
		}
	})
}

// TestGoogleSearch tests result parsing.
func TestGoogleSearch(t *testing.T) {
	t.Parallel()

	t.Run("parses result links inside the search container", func(t *testing.T) {
		t.Parallel()

		params := make(chan url.Values, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			params <- r.URL.Query()
			_, _ = w.Write([]byte(googlePage))
		}))
		defer server.Close()

		got, err := NewGoogle(server.Client(), server.URL+"/search").Search(context.Background(), "Acme email", 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"https://acme.de/contact", "https://acme.com/about"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
		if num := (<-params).Get("num"); num != "5" {
			t.Errorf("expected num=5, got %q", num)
		}
	})

	t.Run("sorry redirect is a rate-limit error", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/sorry/index", http.StatusFound)
		})
		mux.HandleFunc("/sorry/index", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html><body>Our systems have detected unusual traffic</body></html>`))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		_, err := NewGoogle(server.Client(), server.URL+"/search").Search(context.Background(), "q", 3)
		if !errors.Is(err, ErrRateLimited) {
			t.Errorf("expected ErrRateLimited, got %v", err)
		}
	})
}

// TestNewProvider tests provider selection by name.
func TestNewProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		wantName string
		wantErr  bool
	}{
		{name: "", wantName: ProviderDuckDuckGo},
		{name: "DuckDuckGo", wantName: ProviderDuckDuckGo},
		{name: "google", wantName: ProviderGoogle},
		{name: "bing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("provider "+tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := NewProvider(tt.name, nil, "")
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.wantName)
			}
		})
	}
}
