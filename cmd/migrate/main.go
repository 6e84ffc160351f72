// Command migrate applies or rolls back the SQL schema migrations that
// ship under migrations/.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/Zemnmez/MeteoNook/pkg/migrate"
	_ "modernc.org/sqlite" // SQLite driver
)

func main() {
	var (
		dbDriver = flag.String("driver", "sqlite", "database driver (sqlite or postgres)")
		dbDSN    = flag.String("dsn", "", "database connection string")
		dir      = flag.String("dir", "migrations", "directory holding NNN_name.up.sql/.down.sql pairs")
		table    = flag.String("table", "schema_migrations", "version tracking table")
	)
	flag.Usage = usage
	flag.Parse()

	if *dbDSN == "" || flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	if err := run(*dbDriver, *dbDSN, *dir, *table, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(driver, dsn, dir, table string, args []string) error {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	provider := migrate.NewFSProvider(os.DirFS(dir), table, driver)
	migrator := migrate.NewMigrator(db, provider)

	switch cmd := args[0]; cmd {
	case "up":
		if err := migrator.MigrateUp(); err != nil {
			return err
		}
		fmt.Println("migrations applied")
	case "to":
		if len(args) < 2 {
			return fmt.Errorf("to requires a target version, e.g. migrate -dsn config.db to 0")
		}
		target, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid target version %q: %w", args[1], err)
		}
		if err := migrator.MigrateTo(target); err != nil {
			return err
		}
		fmt.Printf("migrated to version %d\n", target)
	case "version":
		version, err := migrator.GetCurrentVersion()
		if err != nil {
			return err
		}
		fmt.Printf("current version: %d\n", version)
	case "status":
		return printStatus(migrator)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	return nil
}

func printStatus(migrator *migrate.Migrator) error {
	current, err := migrator.GetCurrentVersion()
	if err != nil {
		return err
	}

	pending, err := migrator.GetPendingMigrations()
	if err != nil {
		return err
	}

	fmt.Printf("current version:    %d\n", current)
	fmt.Printf("pending migrations: %d\n", len(pending))
	for _, m := range pending {
		fmt.Printf("  %3d  %s\n", m.Version, m.Name)
	}

	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: migrate -dsn <connection string> [flags] <command>")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  up            apply all pending migrations")
	fmt.Fprintln(os.Stderr, "  to <version>  migrate up or down to a specific version (0 reverts everything)")
	fmt.Fprintln(os.Stderr, "  version       print the current schema version")
	fmt.Fprintln(os.Stderr, "  status        print the current version and any pending migrations")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Examples:")
	fmt.Fprintln(os.Stderr, "  migrate -dsn config.db up")
	fmt.Fprintln(os.Stderr, "  migrate -dsn config.db to 0")
	fmt.Fprintln(os.Stderr, "  migrate -dsn config.db -dir migrations/config status")
}
