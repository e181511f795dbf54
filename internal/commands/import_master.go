package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/datev"
)

// Conventional master-data file names inside a DATEV export directory.
const (
	accountMasterFileName = "Sachkontenstamm.csv"
	partnerMasterFileName = "DebitorenKreditorenstammdaten.csv"
)

func newImportMasterCommand(logger *log.Logger) *cobra.Command {
	var flags commonFlags

	cmd := &cobra.Command{
		Use:   "import-master <dir>",
		Short: "Import DATEV master data (accounts, debtors, creditors)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.open()
			if err != nil {
				return err
			}
			defer env.close()
			return runImportMaster(env, logger, args[0])
		},
	}

	flags.register(cmd)
	return cmd
}

func runImportMaster(env *runEnv, logger *log.Logger, dir string) error {
	found := 0

	if raw, err := os.ReadFile(filepath.Join(dir, accountMasterFileName)); err == nil {
		found++
		accounts := datev.ParseAccountMaster(raw, env.tenant, env.chart.Name)
		summary, err := env.store.InsertAccounts(env.tenant, accounts)
		if err != nil {
			return err
		}
		logger.Info("Sachkonten importiert",
			"parsed", len(accounts),
			"imported", summary.Imported,
			"skipped", summary.Skipped,
			"errors", summary.Errors)
		if err := appendImportLog(env, "sachkonten", "", accountMasterFileName, summary); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading account master: %w", err)
	} else {
		logger.Warn("Sachkontenstamm nicht gefunden", "dir", dir)
	}

	if raw, err := os.ReadFile(filepath.Join(dir, partnerMasterFileName)); err == nil {
		found++
		partners := datev.ParsePartnerMaster(raw, env.tenant)
		summary, err := env.store.InsertPartners(env.tenant, partners)
		if err != nil {
			return err
		}
		logger.Info("Geschäftspartner importiert",
			"parsed", len(partners),
			"imported", summary.Imported,
			"skipped", summary.Skipped,
			"errors", summary.Errors)
		if err := appendImportLog(env, "stammdaten", "", partnerMasterFileName, summary); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading partner master: %w", err)
	} else {
		logger.Warn("Debitoren-/Kreditorenstamm nicht gefunden", "dir", dir)
	}

	if found == 0 {
		return fmt.Errorf("keine Stammdaten-Dateien in %s", dir)
	}
	return nil
}
