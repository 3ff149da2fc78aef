package api

import (
	"context"

	"portfolio-api/config"
	"portfolio-api/domain"
)

// SheetFetcher retrieves the raw sheet a board is built from.
type SheetFetcher interface {
	FetchSheet(ctx context.Context, sheetID string) (domain.Sheet, error)
}

// ConfigSource provides the sheet configuration, or the reason it is not
// available.
type ConfigSource interface {
	SheetConfig() (config.SheetConfig, error)
}
