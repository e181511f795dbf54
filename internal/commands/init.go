package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/config"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/store"
)

func newInitCommand() *cobra.Command {
	var name string
	var tenant int64
	var chartName string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledger workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, tenant, name, chartName)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "company name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().Int64Var(&tenant, "tenant", 1, "tenant (company) id")
	cmd.Flags().StringVar(&chartName, "chart", "SKR04", "chart of accounts (SKR03 or SKR04)")

	return cmd
}

func runInit(dir string, tenant int64, name, chartName string) error {
	for _, d := range []string{"import", "export", "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(tenant, name)
	cfg.Chart.Name = chartName
	if _, err := cfg.Chart.Resolve(); err != nil {
		return err
	}
	cfg.Database.Path = filepath.Join(dir, "buchex.db")
	if err := config.Save(filepath.Join(dir, "buchex.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Create the database up front so the schema exists before the first
	// import.
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	if err := st.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}

	fmt.Printf("Initialized ledger workspace at %s (tenant %d, %s)\n", dir, tenant, chartName)
	return nil
}
