package commands

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(logger *log.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "buchex",
		Short:   "DATEV and bank statement ledger interchange",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportDatevCommand(logger))
	rootCmd.AddCommand(newImportMasterCommand(logger))
	rootCmd.AddCommand(newImportBankCommand(logger))
	rootCmd.AddCommand(newExportExtfCommand(logger))

	return rootCmd
}
