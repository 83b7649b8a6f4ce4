package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golid-ai/dashkit/internal/dashboard"
	"github.com/golid-ai/dashkit/pkg/apiclient"
	"github.com/golid-ai/dashkit/pkg/clientip"
	"github.com/golid-ai/dashkit/pkg/config"
	"github.com/golid-ai/dashkit/pkg/environment"
	"github.com/golid-ai/dashkit/pkg/feature"
	"github.com/golid-ai/dashkit/pkg/httpserver"
	"github.com/golid-ai/dashkit/pkg/logger"
	"github.com/golid-ai/dashkit/pkg/requestid"
	"github.com/golid-ai/dashkit/pkg/routeguard"
)

func main() {
	var (
		appCfg   dashboard.Config
		httpCfg  httpserver.Config
		guardCfg routeguard.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&guardCfg)

	log := logger.New(
		logger.WithEnvironment(appCfg.Env, appCfg.ServiceName),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			clientip.LoggerExtractor(),
			environment.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = environment.WithContext(ctx, environment.Parse(appCfg.Env))

	api := apiclient.New(appCfg.BackendURL,
		apiclient.WithTimeout(10*time.Second),
		apiclient.WithLogger(log),
	)

	flags := feature.New(api.Features(), feature.WithLogger(log))
	if err := flags.Load(ctx); err != nil {
		log.WarnContext(ctx, "starting without feature flags", logger.Error(err))
	}
	go refreshFlags(ctx, flags, appCfg.FeatureRefresh)

	router, err := dashboard.NewRouter(dashboard.Deps{
		Config: appCfg,
		Logger: log,
		API:    api,
		Flags:  flags,
		Guard:  routeguard.NewFromConfig(guardCfg, routeguard.WithLogger(log)),
	})
	if err != nil {
		log.ErrorContext(ctx, "invalid dashboard config", logger.Error(err))
		os.Exit(1)
	}

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(ctx context.Context, addr string) {
			log.InfoContext(ctx, "dashboard ready",
				slog.String("addr", addr),
				slog.String("backend", appCfg.BackendURL),
				slog.Bool("demo_mode", appCfg.DemoMode),
			)
		}),
		httpserver.WithStopHook(func(context.Context) error {
			return api.Close()
		}),
	)

	if err := srv.Run(ctx, router); err != nil {
		log.ErrorContext(ctx, "dashboard stopped", logger.Error(err))
		os.Exit(1)
	}
}

func refreshFlags(ctx context.Context, flags *feature.Flags, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = flags.Load(ctx)
		}
	}
}
