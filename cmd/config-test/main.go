package main

import (
	"flag"
	"fmt"
	"os"
	"reflect"

	"github.com/Zemnmez/MeteoNook/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite configuration file")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("Configuration Comparison Test")
	fmt.Println("===========================")

	// Load YAML configuration
	fmt.Printf("Loading YAML configuration: %s\n", *yamlFile)
	yamlProvider := config.NewYAMLProvider(*yamlFile)
	yamlConfig, err := yamlProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML config: %v\n", err)
		os.Exit(1)
	}

	// Load SQLite configuration
	fmt.Printf("Loading SQLite configuration: %s\n", *sqliteFile)
	sqliteProvider, err := config.NewSQLiteProvider(*sqliteFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating SQLite provider: %v\n", err)
		os.Exit(1)
	}
	defer sqliteProvider.Close()

	sqliteConfig, err := sqliteProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading SQLite config: %v\n", err)
		os.Exit(1)
	}

	// Compare configurations
	fmt.Println("\nComparison Results:")
	fmt.Println("==================")

	mismatches := 0

	// Compare island
	if reflect.DeepEqual(yamlConfig.Island, sqliteConfig.Island) {
		fmt.Println("✓ Island configuration matches")
	} else {
		fmt.Println("✗ Island configuration differs")
		printIslandDiff(yamlConfig.Island, sqliteConfig.Island)
		mismatches++
	}

	// Compare oracle
	if reflect.DeepEqual(yamlConfig.Oracle, sqliteConfig.Oracle) {
		fmt.Println("✓ Oracle configuration matches")
	} else {
		fmt.Println("✗ Oracle configuration differs")
		mismatches++
	}

	// Compare captures
	fmt.Printf("\nCaptures - YAML: %d, SQLite: %d\n", len(yamlConfig.Captures), len(sqliteConfig.Captures))
	if len(yamlConfig.Captures) == len(sqliteConfig.Captures) {
		fmt.Println("✓ Capture count matches")
		for i, yamlCapture := range yamlConfig.Captures {
			sqliteCapture := sqliteConfig.Captures[i]
			if reflect.DeepEqual(yamlCapture, sqliteCapture) {
				fmt.Printf("✓ Capture %s matches\n", yamlCapture.Name)
			} else {
				fmt.Printf("✗ Capture %s differs\n", yamlCapture.Name)
				mismatches++
			}
		}
	} else {
		fmt.Println("✗ Capture count mismatch")
		mismatches++
	}

	// Compare storage
	fmt.Println("\nStorage Configuration:")
	if !compareStorage(yamlConfig.Storage, sqliteConfig.Storage) {
		mismatches++
	}

	// Compare controllers
	fmt.Printf("\nControllers - YAML: %d, SQLite: %d\n", len(yamlConfig.Controllers), len(sqliteConfig.Controllers))
	if len(yamlConfig.Controllers) == len(sqliteConfig.Controllers) {
		fmt.Println("✓ Controller count matches")
		for i, yamlController := range yamlConfig.Controllers {
			sqliteController := sqliteConfig.Controllers[i]
			if compareControllers(yamlController, sqliteController) {
				fmt.Printf("✓ Controller %s matches\n", yamlController.Type)
			} else {
				fmt.Printf("✗ Controller %s differs\n", yamlController.Type)
				mismatches++
			}
		}
	} else {
		fmt.Println("✗ Controller count mismatch")
		mismatches++
	}

	if mismatches > 0 {
		fmt.Printf("\nTest completed: %d mismatches\n", mismatches)
		os.Exit(1)
	}
	fmt.Println("\nTest completed: configurations match!")
}

func printIslandDiff(yaml, sqlite config.IslandData) {
	if yaml.Name != sqlite.Name {
		fmt.Printf("  Name: YAML='%s', SQLite='%s'\n", yaml.Name, sqlite.Name)
	}
	if yaml.Hemisphere != sqlite.Hemisphere {
		fmt.Printf("  Hemisphere: YAML='%s', SQLite='%s'\n", yaml.Hemisphere, sqlite.Hemisphere)
	}
	if yaml.Seed != sqlite.Seed {
		fmt.Printf("  Seed: YAML=%d, SQLite=%d\n", yaml.Seed, sqlite.Seed)
	}
}

func compareStorage(yaml, sqlite config.StorageData) bool {
	if (yaml.TimescaleDB == nil) != (sqlite.TimescaleDB == nil) {
		fmt.Println("✗ TimescaleDB configuration presence mismatch")
		return false
	}
	if yaml.TimescaleDB != nil && sqlite.TimescaleDB != nil {
		if reflect.DeepEqual(*yaml.TimescaleDB, *sqlite.TimescaleDB) {
			fmt.Println("✓ TimescaleDB configuration matches")
			return true
		}
		fmt.Println("✗ TimescaleDB configuration differs")
		return false
	}
	fmt.Println("✓ TimescaleDB: both nil")
	return true
}

func compareControllers(yaml, sqlite config.ControllerData) bool {
	if yaml.Type != sqlite.Type {
		return false
	}

	if (yaml.RESTServer == nil) != (sqlite.RESTServer == nil) {
		return false
	}
	if yaml.RESTServer != nil && !reflect.DeepEqual(*yaml.RESTServer, *sqlite.RESTServer) {
		return false
	}

	return true
}
