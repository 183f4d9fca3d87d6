// Command stockctl runs operational tasks against the stock tracker database.
package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"stock-tracker.backend/internal/config"
	"stock-tracker.backend/internal/infrastructure/datasources/postgres"
	"stock-tracker.backend/internal/infrastructure/migrations"
	"stock-tracker.backend/internal/infrastructure/repositories"
	"stock-tracker.backend/internal/usecases"
	"stock-tracker.backend/pkg/crypto"
	"stock-tracker.backend/pkg/logger"
	"stock-tracker.backend/pkg/metrics"
)

var (
	loadDotenv       = godotenv.Load
	loadCfg          = config.Load
	openDB           = postgres.NewConnection
	openGorm         = postgres.OpenGorm
	migrationDialect = migrations.DialectPostgres
	hashPassword     = crypto.HashPassword
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "stockctl",
		Short:        "Stock Tracker maintenance commands",
		SilenceUsage: true,
	}
	root.AddCommand(
		newMigrateCmd(),
		newImportCmd(),
		newHashPasswordCmd(),
		newSeedCmd(),
	)
	return root
}

// connect loads config and opens the database. The caller closes the pool.
func connect() (*sql.DB, error) {
	_ = loadDotenv()
	cfg, err := loadCfg()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Server.Env, cfg.Server.LogLevel)

	db, err := openDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func connectGorm() (*sql.DB, *gorm.DB, error) {
	sqlDB, err := connect()
	if err != nil {
		return nil, nil, err
	}
	db, err := openGorm(sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	return sqlDB, db, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back or inspect schema migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			defer db.Close()

			runner := migrations.NewRunner(db, migrationDialect)
			if err := runner.Run(cmd.Context(), args[0]); err != nil {
				return err
			}
			version, err := runner.Version(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Bulk import products from a CSV file",
		Long: `Reads a CSV whose first row holds column names (name, category, costPrice,
price, stock, minStock, unit, sku, barcode, supplier, location, description)
and inserts the rows. Products whose SKU or barcode already exists are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := usecases.ParseImportCSV(f)
			if err != nil {
				return err
			}

			sqlDB, db, err := connectGorm()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			result, err := newProductUsecase(db).BulkImport(cmd.Context(), rows)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (skipped %d, invalid %d)\n", result.Message, result.Skipped, result.Invalid)
			return nil
		},
	}
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash stored for a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := hashPassword(args[0])
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	opts := seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a demo admin, categories, products, customers and orders",
		Long: `Seeds a demo dataset. Running it again is safe: the admin is kept,
products are matched by SKU, and customers and orders are only created
when the customer table is empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sqlDB, db, err := connectGorm()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			report, err := newSeeder(db).Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.AdminEmail, "admin-email", "admin@stocktracker.local", "email of the demo admin")
	cmd.Flags().StringVar(&opts.AdminPassword, "admin-password", "admin12345", "password of the demo admin")
	return cmd
}

func newProductUsecase(db *gorm.DB) *usecases.ProductUsecase {
	return usecases.NewProductUsecase(
		repositories.NewProductRepository(db),
		repositories.NewCategoryRepository(db),
		repositories.NewUnitOfWork(db),
		metrics.NewImportMetrics(nil),
	)
}
