package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"franchiseops/internal/config"
	"franchiseops/internal/costing"
	"franchiseops/internal/db"
	"franchiseops/internal/db/mock"
	applog "franchiseops/internal/log"
	"franchiseops/internal/matching"
	"franchiseops/internal/store"
	"franchiseops/internal/variance"
)

// Replaced in tests.
var (
	loadConfigFunc   = config.Load
	openDatabaseFunc = openDatabase
)

type options struct {
	tenantID uint
	useMock  bool
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "franchisectl",
		Short:         "Operate the franchise recipe costing engine from the shell",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applog.SetLevel(opts.logLevel)
		},
	}
	root.PersistentFlags().UintVarP(&opts.tenantID, "tenant", "t", 0, "Tenant (franchise brand) id")
	root.PersistentFlags().BoolVar(&opts.useMock, "mock", false, "Use the seeded in-memory database")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Minimum log level")

	root.AddCommand(
		newImportCatalogCmd(opts),
		newRecalcCmd(opts),
		newVarianceCmd(opts),
		newMatchCmd(opts),
	)
	return root
}

// session bundles what every subcommand needs once the database is open.
type session struct {
	tenantID uint
	store    *store.Store
	costs    *costing.Service
	variance *variance.Service
}

func (o *options) open(ctx context.Context) (*session, error) {
	if o.tenantID == 0 {
		return nil, errors.New("--tenant is required")
	}
	cfg, err := loadConfigFunc()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	database, err := openDatabaseFunc(ctx, cfg.Database, o.useMock)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	matcher := matching.New(matching.Config{
		HighThreshold:   cfg.Matching.HighThreshold,
		MediumThreshold: cfg.Matching.MediumThreshold,
		LowThreshold:    cfg.Matching.LowThreshold,
		KeywordWeight:   cfg.Matching.KeywordWeight,
	})
	repo := store.New(database)
	return &session{
		tenantID: o.tenantID,
		store:    repo,
		costs:    costing.NewService(repo, matcher, nil),
		variance: variance.NewService(repo, nil),
	}, nil
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig, useMock bool) (*gorm.DB, error) {
	if useMock || cfg.UseMock {
		return mock.New(ctx)
	}
	database, err := db.Initialize(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(database); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return database, nil
}
