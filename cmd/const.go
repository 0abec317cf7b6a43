package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var (
	fs = afero.NewCacheOnReadFs(afero.NewOsFs(), afero.NewMemMapFs(), 0)

	faint          = color.New(color.Faint).SprintFunc()
	infoPrinter    = color.New(color.Bold)
	errorPrinter   = color.New(color.FgRed, color.Bold)
	successPrinter = color.New(color.FgGreen, color.Bold)
)

func makeLogger(isDebug bool) *zap.SugaredLogger {
	logger := zap.NewNop()
	if isDebug {
		l, err := zap.NewDevelopment()
		if err == nil {
			logger = l
		}
	}

	return logger.Sugar()
}
