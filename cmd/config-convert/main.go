// Command config-convert turns a YAML configuration file into the SQLite
// configuration database the daemon can serve from.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Zemnmez/MeteoNook/pkg/config"
	"github.com/Zemnmez/MeteoNook/pkg/migrate"
	_ "modernc.org/sqlite"
)

func main() {
	var (
		yamlFile      = flag.String("yaml", "", "path to the YAML configuration file (required)")
		sqliteFile    = flag.String("sqlite", "", "path for the SQLite database to create (required)")
		migrationsDir = flag.String("migrations-dir", "", "path to the config migrations (default: auto-detect)")
		force         = flag.Bool("force", false, "overwrite an existing SQLite database")
		dryRun        = flag.Bool("dry-run", false, "parse and summarize the YAML without creating a database")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(*yamlFile, *sqliteFile, *migrationsDir, *force, *dryRun); err != nil {
		fmt.Fprintf(os.Stderr, "config-convert: %v\n", err)
		os.Exit(1)
	}
}

func run(yamlFile, sqliteFile, migrationsDir string, force, dryRun bool) error {
	if migrationsDir == "" {
		migrationsDir = detectMigrationsDir()
	}
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		return fmt.Errorf("migrations directory %s does not exist (set -migrations-dir)", migrationsDir)
	}

	fmt.Printf("Converting %s to %s (migrations: %s)\n", yamlFile, sqliteFile, migrationsDir)

	configData, err := config.NewYAMLProvider(yamlFile).LoadConfig()
	if err != nil {
		return fmt.Errorf("load YAML configuration: %w", err)
	}
	printConfigSummary(configData)

	if dryRun {
		fmt.Println("dry run: no database created")
		return nil
	}

	if _, err := os.Stat(sqliteFile); err == nil {
		if !force {
			return fmt.Errorf("%s already exists (use -force to overwrite)", sqliteFile)
		}
		if err := os.Remove(sqliteFile); err != nil {
			return fmt.Errorf("remove existing database: %w", err)
		}
	}

	if err := createSQLiteDatabase(sqliteFile, migrationsDir); err != nil {
		return fmt.Errorf("create SQLite database: %w", err)
	}

	sqliteProvider, err := config.NewSQLiteProvider(sqliteFile)
	if err != nil {
		return fmt.Errorf("open SQLite provider: %w", err)
	}
	defer sqliteProvider.Close()

	if err := sqliteProvider.SaveConfig(configData); err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}

	if err := verifyConversion(sqliteProvider, configData); err != nil {
		return fmt.Errorf("verify converted database: %w", err)
	}

	fmt.Println("Conversion complete.")
	fmt.Printf("Run the daemon with: meteonookd -config-backend sqlite -config %s\n", sqliteFile)
	return nil
}

// detectMigrationsDir checks the usual locations for the config migrations.
func detectMigrationsDir() string {
	candidates := []string{
		"migrations/config",
		"/usr/share/meteonook/migrations/config",
		"/usr/local/share/meteonook/migrations/config",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "migrations/config"
}

func createSQLiteDatabase(dbPath, migrationsDir string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	provider := migrate.NewFSProvider(os.DirFS(migrationsDir), "schema_migrations", "sqlite")
	return migrate.NewMigrator(db, provider).MigrateUp()
}

// verifyConversion reloads the freshly written database and checks that
// the sections round-tripped.
func verifyConversion(provider *config.SQLiteProvider, want *config.ConfigData) error {
	got, err := provider.LoadConfig()
	if err != nil {
		return err
	}

	if got.Island.Name != want.Island.Name || got.Island.Hemisphere != want.Island.Hemisphere || got.Island.Seed != want.Island.Seed {
		return fmt.Errorf("island mismatch: wrote %+v, read back %+v", want.Island, got.Island)
	}
	if got.Oracle.Endpoint != want.Oracle.Endpoint {
		return fmt.Errorf("oracle endpoint mismatch: wrote %q, read back %q", want.Oracle.Endpoint, got.Oracle.Endpoint)
	}
	if len(got.Captures) != len(want.Captures) {
		return fmt.Errorf("capture count mismatch: wrote %d, read back %d", len(want.Captures), len(got.Captures))
	}
	if len(got.Controllers) != len(want.Controllers) {
		return fmt.Errorf("controller count mismatch: wrote %d, read back %d", len(want.Controllers), len(got.Controllers))
	}

	fmt.Printf("Verified: island %q, %d captures, %d controllers round-tripped\n",
		got.Island.Name, len(got.Captures), len(got.Controllers))
	return nil
}

func printConfigSummary(configData *config.ConfigData) {
	fmt.Printf("  Island: %s (%s, seed %d)\n", configData.Island.Name, configData.Island.Hemisphere, configData.Island.Seed)
	fmt.Printf("  Oracle: %s\n", configData.Oracle.Endpoint)

	fmt.Printf("  Captures (%d):\n", len(configData.Captures))
	for _, capture := range configData.Captures {
		fmt.Printf("    - %s (%s:%d)\n", capture.Name, capture.ListenAddr, capture.Port)
	}

	if configData.Storage.TimescaleDB != nil {
		fmt.Printf("  Storage: timescaledb\n")
	}

	fmt.Printf("  Controllers (%d):\n", len(configData.Controllers))
	for _, controller := range configData.Controllers {
		fmt.Printf("    - %s\n", controller.Type)
	}
}
