package app

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fsdevblog/barky/internal/config"
	"github.com/fsdevblog/barky/internal/controllers"
	"github.com/fsdevblog/barky/internal/db"
	"github.com/fsdevblog/barky/internal/logs"
	"github.com/fsdevblog/barky/internal/services"
	"github.com/fsdevblog/barky/internal/tlscert"
)

const (
	serviceName       = "barky"
	connectTimeout    = 30 * time.Second
	fixturesTimeout   = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 5 * time.Second
)

type App struct {
	config     config.Config
	conn       *db.Connection
	dbServices *services.Services
	handler    http.Handler
	Logger     *zap.Logger
}

// New открывает хранилище и собирает сервисный слой и роутер приложения.
func New(conf config.Config) (*App, error) {
	logger, errLog := logs.New(
		logs.WithLevel(conf.LogLevel),
		logs.WithInitialFields(map[string]any{"service": serviceName}),
	)
	if errLog != nil {
		return nil, fmt.Errorf("init logger: %w", errLog)
	}
	return NewWithLogger(conf, logger)
}

// NewWithLogger как New, но с готовым логгером.
func NewWithLogger(conf config.Config, logger *zap.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	conn, errConn := db.NewConnectionFactory(ctx, factoryConfig(&conf), logger)
	if errConn != nil {
		return nil, fmt.Errorf("open storage: %w", errConn)
	}

	dbServices, errServices := services.Factory(conn, services.FactoryOptions{
		CacheTTL: conf.CacheTTL,
		Logger:   logger,
	})
	if errServices != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init services: %w", errServices)
	}

	handler := controllers.SetupRouter(controllers.RouterParams{
		BookmarkService: dbServices.BookmarkService,
		PingService:     dbServices.PingService,
		AppConf:         conf,
		Logger:          logger,
	})

	return &App{
		config:     conf,
		conn:       conn,
		dbServices: dbServices,
		handler:    handler,
		Logger:     logger,
	}, nil
}

// Must вызывает панику если произошла ошибка.
func Must(a *App, err error) *App {
	if err != nil {
		panic(err)
	}
	return a
}

// Handler http обработчик приложения.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run запускает web сервер и блокируется до SIGINT/SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext загружает фикстуры, запускает сервер и останавливает его при отмене ctx.
// После остановки сервера фикстуры сохраняются, подключения к хранилищам закрываются.
func (a *App) RunContext(ctx context.Context) error {
	defer func() {
		if err := a.conn.Close(); err != nil {
			a.Logger.Error("close storage", zap.Error(err))
		}
	}()

	if err := a.restoreFixtures(); err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	listener, errListen := a.listen()
	if errListen != nil {
		return fmt.Errorf("run app: %w", errListen)
	}

	server := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          zap.NewStdLog(a.Logger),
	}

	errChan := make(chan error, 1)
	go func() {
		a.Logger.Info("server started",
			zap.String("address", listener.Addr().String()),
			zap.Bool("https", a.config.EnableHTTPS),
		)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("shutdown command received")
	case serverErr = <-errChan:
		a.Logger.Error("server error", zap.Error(serverErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("server shutdown", zap.Error(err))
	}
	<-errChan

	a.dumpFixtures()
	return serverErr
}

// listen открывает сокет, при включенном https оборачивая его в TLS.
func (a *App) listen() (net.Listener, error) {
	listener, err := net.Listen("tcp", a.config.ServerAddress)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", a.config.ServerAddress, err)
	}
	if !a.config.EnableHTTPS {
		return listener, nil
	}

	files := tlscert.NewFiles(a.config.TLSCertPath, a.config.TLSKeyPath, tlscert.NewGenerator(), a.Logger)
	if _, err := files.Ensure(); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("prepare certificate: %w", err)
	}
	pair, err := tls.LoadX509KeyPair(files.CertPath, files.KeyPath)
	if err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("load certificate: %w", err)
	}
	return tls.NewListener(listener, &tls.Config{
		Certificates: []tls.Certificate{pair},
		MinVersion:   tls.VersionTLS12,
	}), nil
}

func (a *App) restoreFixtures() error {
	if a.config.FixturePath == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), fixturesTimeout)
	defer cancel()

	n, err := a.dbServices.BookmarkService.RestoreFixtures(ctx, a.config.FixturePath)
	if err != nil {
		return fmt.Errorf("restore fixtures from file `%s`: %w", a.config.FixturePath, err)
	}
	a.Logger.Info("fixtures loaded", zap.String("path", a.config.FixturePath), zap.Int("count", n))
	return nil
}

func (a *App) dumpFixtures() {
	if a.config.FixturePath == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), fixturesTimeout)
	defer cancel()

	n, err := a.dbServices.BookmarkService.DumpFixtures(ctx, a.config.FixturePath)
	if err != nil {
		a.Logger.Error("dump fixtures", zap.String("path", a.config.FixturePath), zap.Error(err))
		return
	}
	a.Logger.Info("fixtures saved", zap.String("path", a.config.FixturePath), zap.Int("count", n))
}

func factoryConfig(conf *config.Config) db.FactoryConfig {
	fc := db.FactoryConfig{}
	switch conf.Storage() {
	case config.StoragePostgres:
		fc.StorageType = db.StorageTypePostgres
		fc.PostgresDSN = &conf.DatabaseDSN
	case config.StorageSQLite:
		fc.StorageType = db.StorageTypeSQLite
		fc.SqliteDBPath = &conf.SQLitePath
	case config.StorageInMemory:
		fc.StorageType = db.StorageTypeInMemory
	}
	if conf.RedisAddr != "" {
		opts := db.DefaultRedisOptions(conf.RedisAddr)
		fc.Redis = &opts
	}
	return fc
}
