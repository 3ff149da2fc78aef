package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"portfolio-api/config"
	"portfolio-api/domain"
)

// Register wires the use-cases route and the static site on e. Every path
// other than the API route is served from settings.StaticDir.
func Register(e *echo.Echo, cfg ConfigSource, sheets SheetFetcher, settings config.Settings, logger *log.Logger) {
	e.JSONSerializer = SonicSerializer{}
	e.GET(useCasesRoute, getUseCases(cfg, sheets, settings.Mode, logger))
	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Root:       ".",
		Index:      "index.html",
		Filesystem: http.Dir(settings.StaticDir),
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == useCasesRoute
		},
	}))
}

func getUseCases(cfgSrc ConfigSource, sheets SheetFetcher, mode config.DeployMode, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		metrics, spanCtx := newUseCaseRequestMetrics(ctx, logger)
		if spanCtx != nil {
			c.SetRequest(c.Request().WithContext(spanCtx))
			ctx = spanCtx
		}
		var failure error
		defer func() {
			metrics.Log(c.Response().Status, failure)
		}()

		configStart := time.Now()
		cfg, err := cfgSrc.SheetConfig()
		metrics.ObserveConfig(time.Since(configStart))
		if err != nil {
			metrics.SetErrorStage("config")
			failure = err
			return respondError(c, err)
		}

		fetchStart := time.Now()
		sheet, err := sheets.FetchSheet(ctx, cfg.SheetID)
		metrics.ObserveFetch(time.Since(fetchStart))
		if err != nil {
			metrics.SetErrorStage("fetch")
			failure = err
			return respondError(c, err)
		}
		metrics.SetRowsReceived(len(sheet.Rows))

		transformStart := time.Now()
		board := domain.Transform(sheet, cfg.ColumnMap, domain.LiveSource)
		metrics.ObserveTransform(time.Since(transformStart))
		metrics.SetUseCasesReturned(len(board.UseCases))

		c.Response().Header().Set(echo.HeaderCacheControl, mode.CacheControl())
		encodeStart := time.Now()
		err = c.JSONPretty(http.StatusOK, board, jsonIndent)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
			failure = err
		}
		return err
	}
}
