package cmd

import (
	"fmt"
	"time"
	// zone database for images without /usr/share/zoneinfo
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/cppla/wemake/config"
	"github.com/cppla/wemake/models"
	"github.com/cppla/wemake/store"
	"github.com/cppla/wemake/utils"
)

var skipSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate every table and seed default topics and categories",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&skipSeed, "no-seed", false, "Do not insert default topics and categories")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := utils.InitLogger(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer utils.SyncLogger()

	db, err := config.OpenDatabase(cfg)
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db)

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.Sugar.Infow("schema migrated", "tables", len(models.All()))
	if skipSeed {
		return nil
	}

	st, err := newStore(db, cfg)
	if err != nil {
		return err
	}
	if err := st.SeedDefaults(cmd.Context()); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}
	utils.Sugar.Info("default topics and categories seeded")
	return nil
}

func newStore(db *gorm.DB, cfg config.AppConfig) (*store.Store, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	return store.New(db, store.Options{
		Location:            loc,
		LeaderboardPageSize: cfg.LeaderboardPageSize,
	}), nil
}
