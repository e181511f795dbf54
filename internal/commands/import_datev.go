package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/csvutil"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/datev"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/importlog"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/model"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/store"
)

// journalFileName is the conventional GDPdU booking-journal file name inside
// a DATEV export directory.
const journalFileName = "buchungssatzprotokoll.csv"

func newImportDatevCommand(logger *log.Logger) *cobra.Command {
	var flags commonFlags

	cmd := &cobra.Command{
		Use:   "import-datev <file-or-dir>",
		Short: "Import a DATEV booking journal (GDPdU or EXTF)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.open()
			if err != nil {
				return err
			}
			defer env.close()
			return runImportDatev(env, logger, args[0])
		},
	}

	flags.register(cmd)
	return cmd
}

func runImportDatev(env *runEnv, logger *log.Logger, path string) error {
	path, err := resolveJournalPath(path)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading journal: %w", err)
	}
	content := csvutil.DecodeLatin1(raw)
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("CSV-Datei ist leer")
	}

	opts := datev.ReconstructOptions{
		TenantID:  env.tenant,
		Chart:     env.chart,
		Now:       time.Now(),
		CreatedBy: env.createdBy(),
	}

	var toPersist []model.Booking
	var source string

	if strings.HasPrefix(content, `"EXTF"`) || strings.HasPrefix(content, "EXTF") {
		source = "datev_extf"
		result := datev.ParseExtf(content)
		year := opts.Now.Year()
		if !result.Header.From.IsZero() {
			year = result.Header.From.Year()
		}
		opts.Source = source
		opts.ImportRef = datev.NewImportRef(source, year)
		for _, w := range result.Warnings {
			logger.Warn(w)
		}
		for _, e := range result.Errors {
			logger.Error(e)
		}
		toPersist = result.ToBookings(opts)
		logger.Info("EXTF-Datei gelesen",
			"rows", result.Stats.Total,
			"valid", result.Stats.Valid,
			"invalid", result.Stats.Invalid)
	} else {
		source = "datev_gdpdu"
		lines, dropped := datev.ParseJournal(raw)
		year := opts.Now.Year()
		if len(lines) > 0 {
			if d, ok := datev.ParseDatevDate(lines[0].DocumentDate); ok {
				year = d.Year()
			}
		}
		opts.Source = source
		opts.ImportRef = datev.NewImportRef(source, year)
		var stats datev.ReconstructStats
		toPersist, stats = datev.Reconstruct(lines, opts)
		logger.Info("GDPdU-Journal gelesen",
			"lines", stats.Lines,
			"groups", stats.Groups,
			"bookings", stats.Bookings,
			"dropped", stats.Dropped+dropped)
	}

	if len(toPersist) == 0 {
		return fmt.Errorf("Keine gültigen Zeilen gefunden - bitte CSV-Format prüfen")
	}

	summary, err := env.store.InsertBookings(env.tenant, toPersist, env.chunkSize())
	if err != nil {
		return err
	}

	logger.Info("DATEV-Import abgeschlossen",
		"source", source,
		"import_ref", opts.ImportRef,
		"imported", summary.Imported,
		"skipped", summary.Skipped,
		"errors", summary.Errors)

	return appendImportLog(env, source, opts.ImportRef, filepath.Base(path), summary)
}

// resolveJournalPath accepts either the journal file itself or the export
// directory containing it.
func resolveJournalPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("locating journal: %w", err)
	}
	if info.IsDir() {
		return filepath.Join(path, journalFileName), nil
	}
	return path, nil
}

func appendImportLog(env *runEnv, source, importRef, file string, summary store.Summary) error {
	entry := importlog.Entry{
		Timestamp: time.Now(),
		Source:    source,
		ImportRef: importRef,
		File:      file,
		Imported:  summary.Imported,
		Skipped:   summary.Skipped,
		Errors:    summary.Errors,
	}
	if err := importlog.Append(env.dataDir, []importlog.Entry{entry}); err != nil {
		return fmt.Errorf("writing import log: %w", err)
	}
	return nil
}
