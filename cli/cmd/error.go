package cmd

import "github.com/ardnew/ccnt/pkg"

var (
	ErrWriteConfig    = pkg.NewError("write configuration file")
	ErrFileExists     = pkg.NewError("file exists (use --force to overwrite)")
	ErrBinaryTerminal = pkg.NewError("refusing to write binary output to a terminal (use --output)")
	ErrOutput         = pkg.NewError("write output")
	ErrStore          = pkg.NewError("results database")
	ErrNoStore        = pkg.NewError("results database disabled")
	ErrStopped        = pkg.NewError("stopped by user")
)
