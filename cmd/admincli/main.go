package main

import (
	"bufio"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/catalogo-admin/internal/application/controller"
	"github.com/jhoicas/catalogo-admin/internal/infrastructure/rest"
	"github.com/jhoicas/catalogo-admin/internal/interfaces/cli"
	"github.com/jhoicas/catalogo-admin/pkg/config"
	"github.com/jhoicas/catalogo-admin/pkg/logger"
	"github.com/jhoicas/catalogo-admin/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.API.BaseURL).
		Msg("iniciando consola de administración")

	rec := metrics.New(cfg.App.Name)
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", rec.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Error().Err(err).Msg("listener de métricas finalizado")
			}
		}()
		log.Info().Str("addr", cfg.Metrics.Addr).Msg("métricas expuestas en /metrics")
	}

	client := rest.New(rest.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, log, rec)

	in := bufio.NewReader(os.Stdin)
	confirm := &cli.TerminalConfirmer{In: in, Out: os.Stdout}

	ctrl := controller.New(client, confirm, log, controller.Options{
		PageSize: cfg.UI.PageSize,
		Debounce: cfg.UI.Debounce,
	})
	defer ctrl.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{Ctrl: ctrl, In: in, Out: os.Stdout}
	if err := app.Run(ctx); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("consola finalizada con error")
	}

	log.Info().Msg("consola detenida")
}
