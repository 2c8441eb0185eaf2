package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/invoixe/invoixe/internal/api"
	"github.com/invoixe/invoixe/internal/auth"
	"github.com/invoixe/invoixe/internal/config"
	"github.com/invoixe/invoixe/internal/ledger"
	"github.com/invoixe/invoixe/internal/ledger/sqlstore"
)

func main() {
	if err := runFn(os.Args[1:], os.Getenv, listenAndServe, newServer); err != nil {
		fatalf("server error: %v", err)
	}
}

var runFn = run
var fatalf = log.Fatalf

func newServer(addr string, cfg config.Config) (*http.Server, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	store, err := openStore(cfg.DB)
	if err != nil {
		return nil, err
	}

	metrics := api.NewMetrics(prometheus.DefaultRegisterer)
	service := api.NewService(store, metrics, logger, cfg.BaseURL)

	h := &api.Handler{
		Auth:    newAuthenticator(cfg.Auth),
		Service: service,
		Log:     logger,
	}

	return &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
	}, nil
}

func openStore(cfg config.DBConfig) (ledger.Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return ledger.NewInMemoryStore(), nil
	case "sqlite":
		s, err := sqlstore.OpenSQLite(cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := ledger.Migrate(s.DB()); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.Driver)
	}
}

func newAuthenticator(cfg config.AuthConfig) auth.Authenticator {
	a := &auth.MultiAuthenticator{
		DevToken:    cfg.DevToken,
		DevTokenUID: cfg.DevTokenUID,
	}
	if cfg.JWTSecret != "" {
		a.JWT = auth.NewJWTAuthenticator(cfg.JWTSecret, cfg.JWTIssuer)
	}
	return a
}

type envFn func(string) string
type listenFn func(*http.Server) error
type serverFactory func(addr string, cfg config.Config) (*http.Server, error)

func run(args []string, getenv envFn, listen listenFn, factory serverFactory) error {
	fs := flag.NewFlagSet("invoixe-gateway", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to invoixe config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfgFile := *configPath
	if cfgFile == "" {
		cfgFile = getenv("INVOIXE_CONFIG_PATH")
	}

	var cfg config.Config
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	cfg.ListenAddr = firstNonEmpty(getenv("INVOIXE_LISTEN_ADDR"), cfg.ListenAddr, ":8080")
	cfg.BaseURL = firstNonEmpty(getenv("INVOIXE_BASE_URL"), cfg.BaseURL)
	cfg.DB.Driver = firstNonEmpty(getenv("INVOIXE_DB_DRIVER"), cfg.DB.Driver)
	cfg.DB.DSN = firstNonEmpty(getenv("INVOIXE_DB_DSN"), cfg.DB.DSN)
	cfg.Auth.JWTSecret = firstNonEmpty(getenv("INVOIXE_JWT_SECRET"), cfg.Auth.JWTSecret)
	cfg.Auth.DevToken = firstNonEmpty(getenv("INVOIXE_DEV_TOKEN"), cfg.Auth.DevToken)

	server, err := factory(cfg.ListenAddr, cfg)
	if err != nil {
		return err
	}

	log.Printf("invoixe-gateway listening on %s", cfg.ListenAddr)
	if err := listen(server); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func listenAndServe(server *http.Server) error {
	return server.ListenAndServe()
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
