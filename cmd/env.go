package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/cnp-robotics/scout-cli/internal/config"
	"github.com/cnp-robotics/scout-cli/internal/enrich"
	"github.com/cnp-robotics/scout-cli/internal/model"
	"github.com/cnp-robotics/scout-cli/internal/roster"
	"github.com/cnp-robotics/scout-cli/internal/store"
	"github.com/cnp-robotics/scout-cli/pkg/anthropic"
	"github.com/cnp-robotics/scout-cli/pkg/ftcscout"
	"github.com/cnp-robotics/scout-cli/pkg/sheets"
)

// scoutEnv bundles the open store and loaded roster a command works against.
type scoutEnv struct {
	Store  store.Store
	Roster *roster.Roster
}

// Close releases resources held by the environment.
func (e *scoutEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv opens the configured store and loads the roster.
func initEnv(ctx context.Context) (*scoutEnv, error) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}

	r := roster.New(st, model.DefaultRegistry())
	if err := r.Load(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return &scoutEnv{Store: st, Roster: r}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.Path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	}
	return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func anthropicClient() (anthropic.Client, error) {
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic.key not configured (SCOUT_ANTHROPIC_KEY)")
	}
	return anthropic.NewClient(cfg.Anthropic.Key), nil
}

func statsClient() ftcscout.Client {
	return ftcscout.NewClient(ftcscout.WithBaseURL(cfg.Stats.BaseURL))
}

func statsDelay() time.Duration {
	return time.Duration(cfg.Stats.DelayMillis) * time.Millisecond
}

func sheetsClient() (sheets.Client, error) {
	if cfg.Sheet.Key == "" {
		return nil, eris.New("sheet.key not configured (SCOUT_SHEET_KEY)")
	}
	return sheets.NewClient(cfg.Sheet.Key), nil
}

func sheetImport(env *scoutEnv) (*enrich.SheetImport, error) {
	client, err := sheetsClient()
	if err != nil {
		return nil, err
	}
	if cfg.Sheet.SpreadsheetID == "" {
		return nil, eris.New("sheet.spreadsheet_id not configured")
	}
	return enrich.NewSheetImport(client, env.Roster,
		cfg.Sheet.SpreadsheetID, cfg.Sheet.Range, enrich.ColumnMap(cfg.Sheet.Columns)), nil
}
