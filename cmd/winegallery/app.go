package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/HerbHall/winegallery/internal/catalog"
	"github.com/HerbHall/winegallery/internal/config"
	"github.com/HerbHall/winegallery/internal/query"
	"github.com/HerbHall/winegallery/internal/services"
	"github.com/HerbHall/winegallery/internal/store"
	pkgcatalog "github.com/HerbHall/winegallery/pkg/catalog"
)

// loadCatalog resolves the configured catalog source.
func loadCatalog(ctx context.Context, s config.Settings) (*pkgcatalog.Catalog, error) {
	switch src := s.Catalog.Source; src {
	case "":
		return pkgcatalog.Default()
	case config.SourceSQLite:
		db, repo, err := openRepository(ctx, s.Database.Path)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		records, err := repo.Load(ctx)
		if errors.Is(err, services.ErrNotFound) {
			return nil, fmt.Errorf("no snapshot in %s; run 'winegallery import' first", s.Database.Path)
		}
		if err != nil {
			return nil, err
		}
		return pkgcatalog.New(records), nil
	default:
		records, err := pkgcatalog.LoadFile(src, pkgcatalog.LoadOptions{Header: s.Catalog.Header})
		if err != nil {
			return nil, err
		}
		return pkgcatalog.New(records), nil
	}
}

// newEngine loads the catalog and builds an engine from settings.
func newEngine(ctx context.Context) (*catalog.Engine, error) {
	cat, err := loadCatalog(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog loaded",
		zap.String("source", sourceName(settings.Catalog.Source)),
		zap.Int("records", cat.Len()),
	)
	g := settings.Plugins.Gallery
	return catalog.NewEngine(cat, logger,
		catalog.WithShortlistSize(settings.Plugins.Quiz.ShortlistSize),
		catalog.WithPriceBounds(query.PriceRange{Min: g.PriceMin, Max: g.PriceMax}),
	), nil
}

func sourceName(src string) string {
	if src == "" {
		return "embedded"
	}
	return src
}

// openRepository opens the snapshot database. The caller closes the store.
func openRepository(ctx context.Context, path string) (*store.SQLiteStore, *services.SQLiteWineRepository, error) {
	db, err := store.New(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	repo, err := services.NewSQLiteWineRepository(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, repo, nil
}
