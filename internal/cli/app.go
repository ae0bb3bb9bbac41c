package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jacentio/lattice/api"
	"github.com/jacentio/lattice/catalog"
	"github.com/jacentio/lattice/internal/config"
	"github.com/jacentio/lattice/internal/logger"
	"github.com/jacentio/lattice/query"
	"github.com/jacentio/lattice/store"
)

// app holds what every command needs before touching the table.
type app struct {
	config   config.Config
	logger   *slog.Logger
	catalogs *catalog.Registry
}

func loadApp(opts *RootOptions, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	log := logger.New(logOut, cfg.Log)
	slog.SetDefault(log)

	catalogs := catalog.Defaults()
	if cfg.Catalog.File != "" {
		catalogs, err = catalog.LoadFile(cfg.Catalog.File)
		if err != nil {
			return nil, fmt.Errorf("load catalogs: %w", err)
		}
	}

	return &app{
		config:   cfg,
		logger:   log,
		catalogs: catalogs,
	}, nil
}

func (a *app) store(ctx context.Context) (*store.Store, error) {
	client, err := store.NewClient(ctx, a.config.ClientConfig())
	if err != nil {
		return nil, err
	}
	return store.New(client, a.config.StoreConfig()), nil
}

func (a *app) paginator(kv store.KV) *query.Paginator {
	return query.NewPaginator(a.catalogs, kv, a.config.QueryConfig(), a.logger)
}

func (a *app) service(ctx context.Context) (*api.Service, error) {
	s, err := a.store(ctx)
	if err != nil {
		return nil, err
	}
	return api.NewService(a.paginator(s), a.logger), nil
}

// filterRequest builds a request for entity from "attr=value" arguments.
func (a *app) filterRequest(entity string, args []string) (query.FilterRequest, error) {
	cat, err := a.catalogs.Lookup(entityType(entity))
	if err != nil {
		return query.FilterRequest{}, err
	}

	params := url.Values{}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return query.FilterRequest{}, fmt.Errorf("filter %q: expected attr=value", arg)
		}
		params.Add(k, v)
	}
	return api.ParseRequest(cat, params)
}

// entityType accepts an entity type or a route name: "USER", "users", "/emails/analytics".
func entityType(s string) string {
	if e, ok := api.Routes["/"+strings.Trim(s, "/")]; ok {
		return e
	}
	return strings.ToUpper(s)
}
