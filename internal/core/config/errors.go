package config

import "errors"

var (
	// ErrConfigurationMissing marks a component constructed without a required
	// dependency. Such components log it and disable themselves.
	ErrConfigurationMissing = errors.New("required configuration missing")
	ErrInvalidConfig        = errors.New("invalid gameplay configuration")
	ErrUnknownFormat        = errors.New("unknown configuration format")
)
