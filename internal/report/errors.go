package report

import "github.com/joker5bb/msrtherm/internal/errors"

const (
	ErrFIFOCreate = errors.ErrorCode("report_fifo_create_failed")
	ErrFIFOOpen   = errors.ErrorCode("report_fifo_open_failed")
	ErrFIFOWrite  = errors.ErrorCode("report_fifo_write_failed")
)
