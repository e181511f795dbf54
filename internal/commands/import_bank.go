package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/bankimport"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/csvutil"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/datev"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/model"
)

func newImportBankCommand(logger *log.Logger) *cobra.Command {
	var flags commonFlags
	var bankAccount string

	cmd := &cobra.Command{
		Use:   "import-bank <file>",
		Short: "Import a bank statement CSV (Qonto, Relio, PayPal, Soldo, SumUp)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.open()
			if err != nil {
				return err
			}
			defer env.close()
			return runImportBank(env, logger, args[0], bankAccount)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&bankAccount, "account", "1200", "ledger account of the bank")
	return cmd
}

func runImportBank(env *runEnv, logger *log.Logger, path, bankAccount string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading statement: %w", err)
	}
	content := csvutil.DecodeLatin1(raw)

	parser, ok := bankimport.DefaultRegistry().Detect(content)
	if !ok {
		return fmt.Errorf("unbekanntes Bankformat: %s", filepath.Base(path))
	}

	result := parser.Parse(content)
	for _, w := range result.Warnings {
		logger.Warn(w)
	}
	for _, e := range result.Errors {
		logger.Error(e)
	}

	valid := result.ValidTransactions()
	if len(valid) == 0 {
		return fmt.Errorf("Keine gültigen Zeilen gefunden - bitte CSV-Format prüfen")
	}

	now := time.Now()
	year := valid[0].Date.Year()
	importRef := datev.NewImportRef(parser.Format(), year)

	bookings := bankBookings(valid, bankBookingOptions{
		tenantID:    env.tenant,
		source:      parser.Format(),
		importRef:   importRef,
		bankAccount: bankAccount,
		now:         now,
		createdBy:   env.createdBy(),
	})

	summary, err := env.store.InsertBookings(env.tenant, bookings, env.chunkSize())
	if err != nil {
		return err
	}

	logger.Info("Bank-Import abgeschlossen",
		"format", parser.Format(),
		"import_ref", importRef,
		"rows", result.Stats.Total,
		"valid", result.Stats.Valid,
		"invalid", result.Stats.Invalid,
		"imported", summary.Imported,
		"skipped", summary.Skipped,
		"errors", summary.Errors)

	return appendImportLog(env, parser.Format(), importRef, filepath.Base(path), summary)
}

type bankBookingOptions struct {
	tenantID    int64
	source      string
	importRef   string
	bankAccount string
	now         time.Time
	createdBy   string
}

// bankBookings turns normalized statement rows into open bookings against
// the bank account. The counter account stays empty until categorization;
// a positive amount debits the bank, a negative one credits it.
func bankBookings(txs []model.NormalizedTransaction, opts bankBookingOptions) []model.Booking {
	bookings := make([]model.Booking, 0, len(txs))
	for _, tx := range txs {
		docNum := tx.Reference
		if docNum == "" {
			docNum = fmt.Sprintf("%s-%s", opts.source, tx.Date.Format("20060102"))
		}

		debit, credit := opts.bankAccount, ""
		if tx.Amount.IsNegative() {
			debit, credit = "", opts.bankAccount
		}

		bookings = append(bookings, model.Booking{
			TenantID:        opts.tenantID,
			Kind:            model.KindOther,
			DocumentDate:    tx.Date,
			DocumentNumber:  docNum,
			LineNumber:      tx.RowNumber,
			PartyKind:       model.PartyOther,
			Party:           tx.Description,
			DebitAccount:    debit,
			CreditAccount:   credit,
			NetAmount:       tx.Amount.Abs(),
			TaxRate:         decimal.Zero,
			GrossAmount:     tx.Amount.Abs(),
			Text:            tx.Description,
			Status:          "offen",
			FiscalYear:      tx.Date.Year(),
			Period:          int(tx.Date.Month()),
			ImportSource:    opts.source,
			ImportTimestamp: opts.now,
			ImportRef:       opts.importRef,
			CreatedBy:       opts.createdBy,
		})
	}
	return bookings
}
