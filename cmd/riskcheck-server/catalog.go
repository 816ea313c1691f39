package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riskcheck/riskcheck/internal/config"
	"github.com/riskcheck/riskcheck/internal/domain/catalog"
	"github.com/riskcheck/riskcheck/internal/platform/db"
)

func withCatalog(fn func(ctx context.Context, svc *catalog.Service) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(ctx, catalog.NewService(catalog.NewRepoPG(pool)))
}

// loadBank reads a YAML question bank, or the built-in one when path is
// empty.
func loadBank(path string) (*catalog.Bank, error) {
	if path == "" {
		return catalog.DefaultBank()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalog.DecodeBank(f)
}

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Import or export the question bank",
	}

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Load questions from a YAML file (defaults to the built-in bank)",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			bank, err := loadBank(path)
			if err != nil {
				return fmt.Errorf("read question bank: %w", err)
			}
			return withCatalog(func(ctx context.Context, svc *catalog.Service) error {
				n, err := svc.Import(ctx, bank)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d question(s).\n", n)
				return nil
			})
		},
	}
	importCmd.Flags().String("file", "", "YAML question bank to import")
	cmd.AddCommand(importCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the question bank as YAML to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			illnessType, _ := cmd.Flags().GetString("type")
			return withCatalog(func(ctx context.Context, svc *catalog.Service) error {
				bank, err := svc.Export(ctx, illnessType)
				if err != nil {
					return err
				}
				return catalog.EncodeBank(cmd.OutOrStdout(), bank)
			})
		},
	}
	exportCmd.Flags().String("type", "", "Illness type to export (all when empty)")
	cmd.AddCommand(exportCmd)

	return cmd
}
