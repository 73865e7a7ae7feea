// Package http provides http transport for analysis runs
package http

import (
	stdhttp "net/http"

	phttp "defectwatch/internal/platform/net/http"
	"defectwatch/internal/services/analysis/domain"
	svc "defectwatch/internal/services/analysis/service"
)

// Register mounts analysis endpoints on the given router
func Register(r phttp.Router, s svc.Service) {
	h := &handlers{svc: s}
	phttp.PostJSON[domain.AnalyzeInput](r, "/analyze", h.analyze)
}

type handlers struct{ svc svc.Service }

func (h *handlers) analyze(r *stdhttp.Request, in domain.AnalyzeInput) (any, error) {
	return h.svc.Analyze(r.Context(), in)
}
