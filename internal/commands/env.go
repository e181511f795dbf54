package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/chart"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/config"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/store"
)

// commonFlags are shared by every subcommand: where the config lives, which
// database to open, and which tenant the run belongs to.
type commonFlags struct {
	configPath string
	dbPath     string
	tenant     int64
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "path to buchex.yaml (default $BUCHEX_CONFIG or ./buchex.yaml)")
	cmd.Flags().StringVar(&f.dbPath, "db", "", "ledger database path (default $BUCHEX_DB or config)")
	cmd.Flags().Int64Var(&f.tenant, "tenant", 0, "tenant (company) id (default from config)")
}

// runEnv is everything a subcommand needs for one run. The tenant id is
// resolved here once and passed explicitly into every engine call.
type runEnv struct {
	cfg     *config.Config
	chart   chart.Chart
	store   *store.Store
	tenant  int64
	dataDir string
}

func (e *runEnv) close() {
	if e.store != nil {
		e.store.Close()
	}
}

func (f commonFlags) open() (*runEnv, error) {
	configPath := f.configPath
	if configPath == "" {
		configPath = os.Getenv("BUCHEX_CONFIG")
	}
	if configPath == "" {
		configPath = "buchex.yaml"
	}

	cfg := config.Default(0, "")
	if _, err := os.Stat(configPath); err == nil {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if f.configPath != "" {
		// An explicitly named config must exist.
		return nil, fmt.Errorf("reading config %s: %w", f.configPath, err)
	}

	tenant := f.tenant
	if tenant == 0 {
		tenant = cfg.Tenant.ID
	}
	if tenant == 0 {
		return nil, fmt.Errorf("tenant id required (--tenant or tenant.id in config)")
	}

	resolved, err := cfg.Chart.Resolve()
	if err != nil {
		return nil, err
	}

	dbPath := f.dbPath
	if dbPath == "" {
		dbPath = os.Getenv("BUCHEX_DB")
	}
	if dbPath == "" {
		dbPath = cfg.Database.Path
	}
	if dbPath == "" {
		dbPath = "buchex.db"
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	return &runEnv{
		cfg:     cfg,
		chart:   resolved,
		store:   st,
		tenant:  tenant,
		dataDir: filepath.Dir(dbPath),
	}, nil
}

func (e *runEnv) chunkSize() int {
	if e.cfg.Import.ChunkSize > 0 {
		return e.cfg.Import.ChunkSize
	}
	return store.DefaultChunkSize
}

func (e *runEnv) createdBy() string {
	if e.cfg.Import.CreatedBy != "" {
		return e.cfg.Import.CreatedBy
	}
	return "import"
}
