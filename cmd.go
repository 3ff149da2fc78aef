package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"portfolio-api/api"
	"portfolio-api/config"
	"portfolio-api/smartsheet"
)

const shutdownTimeout = 10 * time.Second

type rootOptions struct {
	envFile    string
	addr       string
	staticDir  string
	configPath string
	mode       string
	debug      bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "portfolio-api",
		Short: "Serve the AI portfolio board and its live Smartsheet data",
		Long: "Serves the static dashboard and GET /api/use-cases, which reads the configured\n" +
			"Smartsheet sheet and republishes it as use case JSON. Settings come from the\n" +
			"environment (optionally a .env file); flags take precedence.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(opts.envFile); err != nil {
				return err
			}
			settings, err := config.SettingsFromEnv()
			if err != nil {
				return err
			}
			settings, err = opts.apply(settings, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), settings)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.envFile, "env-file", ".env", "KEY=VALUE file loaded into the environment; existing variables win")
	f.StringVar(&opts.addr, "addr", "", "listen address (default \":$PORT\" or \":8080\")")
	f.StringVar(&opts.staticDir, "static-dir", "", "directory served for every path except the API route (default $STATIC_DIR or \".\")")
	f.StringVar(&opts.configPath, "config", "", "sheet configuration file, .json or .yaml (default $SHEET_CONFIG_PATH)")
	f.StringVar(&opts.mode, "mode", "", "deployment mode: dev or serverless (default $DEPLOY_MODE or dev)")
	f.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	return cmd
}

// apply overrides env-derived settings with the flags that were set.
func (o *rootOptions) apply(s config.Settings, changed func(name string) bool) (config.Settings, error) {
	if changed("addr") {
		s.Addr = o.addr
	}
	if changed("static-dir") {
		s.StaticDir = o.staticDir
	}
	if changed("config") {
		s.SheetConfigPath = o.configPath
	}
	if changed("mode") {
		mode, err := config.ParseDeployMode(o.mode)
		if err != nil {
			return config.Settings{}, err
		}
		s.Mode = mode
	}
	if changed("debug") {
		s.Debug = o.debug
	}
	return s, nil
}

func newLogger(s config.Settings) *log.Logger {
	logger := log.New()
	if s.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	if s.Mode == config.ModeServerless {
		logger.SetFormatter(&log.JSONFormatter{})
	}
	return logger
}

func newServer(s config.Settings, logger *log.Logger) *echo.Echo {
	sheetCfg := config.LoadOnce(s.SheetConfigPath)
	if _, err := sheetCfg.SheetConfig(); err != nil {
		logger.Warnf("sheet config: %v; /api/use-cases will fail until it is fixed", err)
	}
	client := smartsheet.NewClient(s.Token,
		smartsheet.WithBaseURL(s.BaseURL),
		smartsheet.WithTimeout(s.Timeout),
		smartsheet.WithLogger(logger),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(api.RequestID())
	e.Use(api.RequestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	api.Register(e, sheetCfg, client, s, logger)
	return e
}

func serve(ctx context.Context, s config.Settings) error {
	logger := newLogger(s)

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warnf("tracer shutdown: %v", err)
		}
	}()

	e := newServer(s, logger)

	logger.Infof("serving %s on %s (%s mode)", s.StaticDir, s.Addr, s.Mode)
	if s.HasToken() {
		logger.Info("Smartsheet API token detected; /api/use-cases is available")
	} else {
		logger.Warnf("no %s set; /api/use-cases will return 503", config.TokenEnv)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(s.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}
