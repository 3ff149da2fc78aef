package config

import "errors"

var (
	// ErrConfigMissing is returned when the sheet configuration file is
	// absent or unreadable.
	ErrConfigMissing = errors.New("sheet configuration missing")
	// ErrConfigInvalid is returned when the sheet configuration cannot be
	// decoded or fails its presence checks.
	ErrConfigInvalid = errors.New("sheet configuration invalid")
)
