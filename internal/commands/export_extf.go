package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/datev"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/store"
)

func newExportExtfCommand(logger *log.Logger) *cobra.Command {
	var flags commonFlags
	var fromStr, toStr, status, outDir string

	cmd := &cobra.Command{
		Use:   "export-extf",
		Short: "Export bookings as a DATEV EXTF booking stack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.open()
			if err != nil {
				return err
			}
			defer env.close()

			from, err := parseDateFlag(fromStr, "--from")
			if err != nil {
				return err
			}
			to, err := parseDateFlag(toStr, "--to")
			if err != nil {
				return err
			}
			return runExportExtf(env, logger, from, to, status, outDir)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&fromStr, "from", "", "start of the export range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "end of the export range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "only export bookings with this status")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	return cmd
}

func parseDateFlag(s, name string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: Ungültiges Datum: %s", name, s)
	}
	return t, nil
}

func runExportExtf(env *runEnv, logger *log.Logger, from, to time.Time, status, outDir string) error {
	bookings, err := env.store.SelectBookings(env.tenant, store.BookingFilter{
		From:   from,
		To:     to,
		Status: status,
	})
	if err != nil {
		return err
	}
	if len(bookings) == 0 {
		return fmt.Errorf("keine Buchungen im gewählten Zeitraum")
	}

	now := time.Now()
	client := strconv.Itoa(env.cfg.Datev.ClientNumber)
	meta := datev.ExportMeta{
		AdvisorNumber:   strconv.Itoa(env.cfg.Datev.AdvisorNumber),
		ClientNumber:    client,
		FiscalYearStart: env.chart.FiscalYearStartMonth,
		From:            from,
		To:              to,
		Created:         now,
	}

	content := datev.ExportExtf(bookings, meta)
	name := datev.ExportFileName(client, now)
	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	logger.Info("EXTF-Export geschrieben",
		"file", path,
		"bookings", len(bookings),
		"from", fromOrDash(from),
		"to", fromOrDash(to))

	return appendImportLog(env, "extf_export", "", name, store.Summary{Imported: len(bookings)})
}

func fromOrDash(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
