package service

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrSheetUnavailable = errors.New("spreadsheet unavailable")
	ErrRenderFailed     = errors.New("render failed")
	ErrNotifierDisabled = errors.New("telegram notifier disabled")
)
