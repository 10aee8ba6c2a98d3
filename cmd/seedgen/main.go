// Command seedgen writes the Movies and Schedule seed statements.
package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/iliyamo/cinema-console/internal/console"
	"github.com/iliyamo/cinema-console/internal/model"
	"github.com/iliyamo/cinema-console/internal/seed"
)

func main() {
	dir := pflag.StringP("out", "o", "docs", "output directory")
	start := pflag.String("start", "", "first day of the schedule, YYYY-MM-DD (default today)")
	days := pflag.Int("days", seed.Days, "number of days to schedule")
	pflag.Parse()

	con := console.NewStdio()
	first := time.Now()
	if *start != "" {
		d, err := model.ParseDay(*start)
		if err != nil {
			con.Errorf("%v", err)
			os.Exit(1)
		}
		first = d
	}
	if *days <= 0 {
		con.Errorf("--days must be positive")
		os.Exit(1)
	}
	if err := os.MkdirAll(*dir, 0o755); err != nil {
		con.Errorf("%v", err)
		os.Exit(1)
	}

	moviesPath := filepath.Join(*dir, "movies.sql")
	if err := writeFile(moviesPath, func(f *os.File) error { return seed.WriteMovies(f, seed.Movies) }); err != nil {
		con.Errorf("%v", err)
		os.Exit(1)
	}
	con.Printf("wrote %s\n", moviesPath)

	schedulePath := filepath.Join(*dir, "schedule.sql")
	screenings := seed.Schedule(seed.Movies, first, *days)
	if err := writeFile(schedulePath, func(f *os.File) error { return seed.WriteSchedule(f, screenings) }); err != nil {
		con.Errorf("%v", err)
		os.Exit(1)
	}
	con.Printf("wrote %s (%d screenings)\n", schedulePath, len(screenings))
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
