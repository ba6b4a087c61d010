package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cppla/wemake/config"
	"github.com/cppla/wemake/models"
	"github.com/cppla/wemake/routes"
	"github.com/cppla/wemake/utils"
)

var portFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if portFlag != "" {
		cfg.AppPort = portFlag
		config.Set(cfg)
	}

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer utils.SyncLogger()

	db, err := config.OpenDatabase(cfg)
	if err != nil {
		return err
	}
	// Only create missing tables; `wemake migrate` does the full AutoMigrate
	config.MigrateMissing(db, models.All()...)

	if err := utils.InitRedis(cfg); err != nil {
		utils.Sugar.Warnw("redis unavailable, using in-memory state", "err", err)
	}

	st, err := newStore(db, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go utils.RowCollector{
		Interval: time.Minute,
		Count: func(ctx context.Context) (map[string]int64, error) {
			s, err := st.Stats(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]int64{
				"profiles":     s.Profiles,
				"posts":        s.Posts,
				"post_replies": s.Replies,
				"products":     s.Products,
			}, nil
		},
	}.Run(ctx)

	r := routes.SetupRouter(st, cfg)
	srv := utils.GraceServer(":"+cfg.AppPort, r)
	srv.OnShutdown(func() {
		cancel()
		utils.CloseRedis()
		config.CloseDatabase(db)
	})

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}
