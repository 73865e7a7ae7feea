package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "defectwatch/internal/platform/errors"
	pnet "defectwatch/internal/platform/net"
	phttp "defectwatch/internal/platform/net/http"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestRespondOK(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req = req.WithContext(pnet.WithRequest(req.Context(), "rid-1"))

	phttp.RespondOK(rec, req, map[string]any{"hello": "world"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.StatusCode != http.StatusOK || env.RequestID != "rid-1" || env.Error != "" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestRespondErrorMapsStatus(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", nil)

	phttp.RespondError(rec, req, perr.Validationf("horizon must be positive"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Code != perr.ErrorCodeValidation || env.Error != "horizon must be positive" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestHandleReturnStyle(t *testing.T) {
	t.Parallel()

	h := phttp.Handle(func(r *http.Request) phttp.Response {
		if r.URL.Query().Get("boom") != "" {
			return phttp.Error(perr.InsufficientDataf("not enough history"))
		}
		return phttp.OK("fine")
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("ok status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/x?boom=1", nil))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("error status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Code != perr.ErrorCodeInsufficientData {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestNoContent(t *testing.T) {
	t.Parallel()

	h := phttp.Handle(func(*http.Request) phttp.Response { return phttp.NoContent() })
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("status = %d body = %q", rec.Code, rec.Body.String())
	}
}
