package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	appcfg "defectwatch/internal/config"
	"defectwatch/internal/platform/config"
	"defectwatch/internal/platform/logger"
	phttp "defectwatch/internal/platform/net/http"
	"defectwatch/internal/platform/net/middleware"

	analysishttp "defectwatch/internal/services/analysis/http"
	svc "defectwatch/internal/services/analysis/service"
	metahttp "defectwatch/internal/services/meta/http"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()

	// analysis model: file based when CORE_API_MODEL_PATH is set
	model := appcfg.Default()
	if path := apiCfg.MayString("MODEL_PATH", ""); path != "" {
		m, err := appcfg.Load(path)
		if err != nil {
			l.Panic().Err(err).Str("path", path).Msg("analysis config invalid")
		}
		model = *m
	} else if err := model.Validate(); err != nil {
		l.Panic().Err(err).Msg("default analysis config invalid")
	}

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)
	r := srv.Router()

	r.Use(middleware.Defaults()...)
	r.Use(middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 2 * time.Second}))
	if apiCfg.MayBool("CORS", true) {
		r.Use(middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: []string{apiCfg.MayString("CORS_ORIGIN", "*")},
		}))
	}

	metahttp.Register(r, metahttp.Deps{
		ServiceName: "defectwatch-api",
		StartedAt:   time.Now().UTC(),
	})
	r.Route("/v1", func(v1 phttp.Router) {
		analysishttp.Register(v1, svc.New(&model))
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
