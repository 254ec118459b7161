package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/OCharnyshevich/paimon/internal/character"
	"github.com/OCharnyshevich/paimon/internal/config"
	"github.com/OCharnyshevich/paimon/internal/gamedata"
	"github.com/OCharnyshevich/paimon/internal/storage"
)

func newGenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate the character database from the download directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := generate(cmd.Context(), a.cfg, a.log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d characters to %s\n", n, a.cfg.OutputPath)
			return nil
		},
	}
	addGenFlags(cmd, a.cfg)
	return cmd
}

func addGenFlags(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVar(&cfg.DownloadDir, "download-dir", cfg.DownloadDir, "download directory to read")
	cmd.Flags().StringVarP(&cfg.OutputPath, "output", "o", cfg.OutputPath, "character database JSON file")
	cmd.Flags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "also export to this SQLite database")
}

// generate builds the character database and writes it out. It returns the
// number of characters written.
func generate(ctx context.Context, cfg *config.Config, log *slog.Logger) (int, error) {
	lookup, err := gamedata.Open(ctx, cfg.DownloadDir, log)
	if err != nil {
		return 0, err
	}
	db, err := character.Generate(lookup, log)
	if err != nil {
		return 0, err
	}
	chars := db.List()
	if err := storage.WriteCharacters(cfg.OutputPath, chars, log); err != nil {
		return 0, err
	}
	if cfg.DBPath != "" {
		sqlDB, err := storage.OpenDB(cfg.DBPath)
		if err != nil {
			return 0, err
		}
		defer sqlDB.Close()
		if err := sqlDB.ReplaceCharacters(ctx, chars); err != nil {
			return 0, err
		}
		log.Info("exported characters", "db", cfg.DBPath, "characters", len(chars))
	}
	return len(chars), nil
}
