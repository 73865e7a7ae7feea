package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	phttp "defectwatch/internal/platform/net/http"
	metahttp "defectwatch/internal/services/meta/http"

	"github.com/go-chi/chi/v5"
)

func TestMetaRoutes(t *testing.T) {
	t.Parallel()

	mux := chi.NewRouter()
	metahttp.Register(phttp.AdaptChi(mux), metahttp.Deps{
		ServiceName: "defectwatch-api",
		StartedAt:   time.Now().Add(-time.Minute),
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}

	var env struct {
		Data metahttp.HealthResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Data.OK || env.Data.Service != "defectwatch-api" {
		t.Fatalf("health = %+v", env.Data)
	}

	resp2, err := http.Get(ts.URL + "/version")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("version status = %d", resp2.StatusCode)
	}
}
