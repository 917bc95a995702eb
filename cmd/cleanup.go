package cmd

import (
	"context"
	"log"

	"MyMedia/config"
	"MyMedia/core/cleanup"
	"MyMedia/db"
	"MyMedia/repository"
	"MyMedia/storage"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Run a single reconciliation pass and exit",
	Long:  `Scan all media records and delete those whose backing file is missing, then exit.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		if err := db.ConnectDB(cfg); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.DB.Close()

		store := storage.NewStore(cfg.UploadDir, cfg.StaticDir)
		mediaRepo := repository.NewMySQLMediaRepository(db.DB)

		svc := cleanup.NewService(mediaRepo, store, cfg.CleanupInterval)
		if err := svc.RunOnce(context.Background()); err != nil {
			log.Fatalf("Cleanup pass failed: %v", err)
		}
		log.Println("Cleanup pass completed.")
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}
