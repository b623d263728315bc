package main

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"

	"github.com/fsdevblog/barky/internal/app"
	"github.com/fsdevblog/barky/internal/buildinfo"
	"github.com/fsdevblog/barky/internal/config"
)

// Заполняются при сборке: go build -ldflags "-X main.buildVersion=v1.0.0 ...".
//
//nolint:gochecknoglobals
var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	info := buildinfo.New(buildVersion, buildDate, buildCommit)
	_ = info.Fprint(os.Stdout)

	appConf, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	a := app.Must(app.New(*appConf))
	defer func() { _ = a.Logger.Sync() }()

	a.Logger.Info("Starting server", append(info.Fields(), zap.Any("config", appConf))...)
	if errRun := a.Run(); errRun != nil && !errors.Is(errRun, context.Canceled) {
		a.Logger.Error("server stopped with error", zap.Error(errRun))
		panic(errRun)
	}
}
