package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	_ "github.com/lib/pq"
	"gonum.org/v1/gonum/stat"
)

// DayRow is one stored forecast day pulled from the database.
type DayRow struct {
	Date         time.Time
	Pattern      string
	LightShower  bool
	HeavyShower  bool
	Aurora       bool
	RainbowCount int
	StarMinutes  float64
}

// MonthStats aggregates the stored days of one calendar month.
type MonthStats struct {
	Month int
	Days  int

	AuroraDays      int
	RainbowDays     int
	LightShowerDays int
	HeavyShowerDays int

	StarMinutes []float64

	MeanStars   float64
	MedianStars float64
	StdDevStars float64
	MaxStars    float64
}

func main() {
	// Command line flags
	var (
		dbHost     = flag.String("db-host", "localhost", "Database host")
		dbPort     = flag.Int("db-port", 5432, "Database port")
		dbUser     = flag.String("db-user", "postgres", "Database user")
		dbPass     = flag.String("db-pass", "", "Database password")
		dbName     = flag.String("db-name", "meteonook", "Database name")
		hemisphere = flag.String("hemisphere", "Northern", "Island hemisphere")
		seed       = flag.Uint("seed", 0, "Island weather seed")
		year       = flag.Int("year", time.Now().Year(), "Calendar year to analyze")
	)
	flag.Parse()

	// Connect to database
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		*dbHost, *dbPort, *dbUser, *dbPass, *dbName)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// Test connection
	if err := db.Ping(); err != nil {
		fmt.Fprintf(os.Stderr, "Error pinging database: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Season Statistics\n")
	fmt.Printf("=================\n\n")
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Hemisphere: %s\n", *hemisphere)
	fmt.Printf("  Seed:       %d\n", *seed)
	fmt.Printf("  Year:       %d\n\n", *year)

	rows := fetchStoredDays(db, *hemisphere, *seed, *year)
	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no stored forecast days for %s/%d in %d\n", *hemisphere, *seed, *year)
		os.Exit(1)
	}

	fmt.Printf("Loaded %d stored days\n\n", len(rows))

	months := buildMonthStats(rows)
	displayMonths(months)
	displayStarRanking(months)
}

func fetchStoredDays(db *sql.DB, hemisphere string, seed uint, year int) []DayRow {
	query := `
		SELECT
			date,
			pattern,
			light_shower,
			heavy_shower,
			aurora,
			rainbow_count,
			jsonb_array_length(stars)
		FROM forecast_days
		WHERE hemisphere = $1
		  AND seed = $2
		  AND date >= $3
		  AND date < $4
		ORDER BY date
	`

	from := fmt.Sprintf("%04d-01-01", year)
	to := fmt.Sprintf("%04d-01-01", year+1)

	rows, err := db.Query(query, hemisphere, seed, from, to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying data: %v\n", err)
		os.Exit(1)
	}
	defer rows.Close()

	var days []DayRow
	for rows.Next() {
		var d DayRow
		if err := rows.Scan(&d.Date, &d.Pattern, &d.LightShower, &d.HeavyShower, &d.Aurora, &d.RainbowCount, &d.StarMinutes); err != nil {
			fmt.Fprintf(os.Stderr, "Error scanning row: %v\n", err)
			continue
		}
		days = append(days, d)
	}

	return days
}

func buildMonthStats(rows []DayRow) []MonthStats {
	byMonth := make(map[int]*MonthStats)

	for _, r := range rows {
		month := int(r.Date.Month())
		m, ok := byMonth[month]
		if !ok {
			m = &MonthStats{Month: month}
			byMonth[month] = m
		}

		m.Days++
		if r.Aurora {
			m.AuroraDays++
		}
		if r.RainbowCount > 0 {
			m.RainbowDays++
		}
		if r.LightShower {
			m.LightShowerDays++
		}
		if r.HeavyShower {
			m.HeavyShowerDays++
		}
		m.StarMinutes = append(m.StarMinutes, r.StarMinutes)
	}

	var months []MonthStats
	for _, m := range byMonth {
		sort.Float64s(m.StarMinutes)
		m.MeanStars = stat.Mean(m.StarMinutes, nil)
		m.MedianStars = stat.Quantile(0.5, stat.Empirical, m.StarMinutes, nil)
		if len(m.StarMinutes) > 1 {
			m.StdDevStars = stat.StdDev(m.StarMinutes, nil)
		}
		m.MaxStars = m.StarMinutes[len(m.StarMinutes)-1]
		months = append(months, *m)
	}

	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return months
}

func displayMonths(months []MonthStats) {
	fmt.Printf("Monthly Breakdown:\n")
	fmt.Printf("%-6s %-5s %-7s %-8s %-13s %-13s %s\n",
		"MONTH", "DAYS", "AURORA", "RAINBOW", "LIGHT SHOWER", "HEAVY SHOWER", "STAR MINUTES (mean/median/max)")

	for _, m := range months {
		fmt.Printf("%-6d %-5d %-7d %-8d %-13d %-13d %.1f / %.1f / %.0f (stddev %.1f)\n",
			m.Month, m.Days, m.AuroraDays, m.RainbowDays, m.LightShowerDays, m.HeavyShowerDays,
			m.MeanStars, m.MedianStars, m.MaxStars, m.StdDevStars)
	}
	fmt.Println()
}

func displayStarRanking(months []MonthStats) {
	ranked := make([]MonthStats, len(months))
	copy(ranked, months)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].MeanStars > ranked[j].MeanStars })

	fmt.Printf("Best months for shooting stars:\n")
	for i, m := range ranked {
		if i == 3 {
			break
		}
		fmt.Printf("  %d. month %d (%.1f star minutes per night)\n", i+1, m.Month, m.MeanStars)
	}
}
