// Package seed generates the INSERT statements that fill the Movies and
// Schedule tables of a fresh database.
package seed

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// Languages is the number of language versions of every movie. Language
// ids run from 1 to Languages.
const Languages = 4

// Days is the default length of a generated schedule.
const Days = 60

// Opening is the hour of the first screening of the day.
const Opening = 12

const slot = 30 * time.Minute

// Movie is a title and its running time in minutes.
type Movie struct {
	Title  string
	Length int
}

// Movies is the default repertoire.
var Movies = []Movie{
	{"Whitney Houston: I Wanna Dance With Somebody", 146},
	{"Shotgun Wedding", 101},
	{"Puss in Boots: The Last Wish", 100},
	{"Transformers: Rise of the Beasts", 150},
	{"Mission: Impossible - Dead Reckoning Part One", 150},
	{"Spider-Man: Across the Sipder-Verse", 115},
	{"The Marvels", 135},
	{"Fast & Furious 10", 145},
	{"Ant-Man and the Wasp: Quantumania", 125},
	{"John Wick: Chapter 4", 130},
	{"Avatar: The Way of Water", 193},
}

// Screening is one generated Schedule row.
type Screening struct {
	MovieID int
	RoomID  int
	Start   time.Time
}

// MovieID is the Movies.id of the lang-th version of the i-th movie, both
// as they are inserted by WriteMovies. i is zero-based, lang one-based.
func MovieID(i, lang int) int { return i*Languages + lang }

// SlotLength is the gap between consecutive screenings of one movie: the
// smallest multiple of 30 minutes strictly longer than the movie.
func SlotLength(minutes int) time.Duration {
	d := slot
	for d <= time.Duration(minutes)*time.Minute {
		d += slot
	}
	return d
}

// Schedule lays out days of screenings starting on the calendar day of
// start. Every movie gets its own room; its language versions run back to
// back from Opening.
func Schedule(movies []Movie, start time.Time, days int) []Screening {
	out := make([]Screening, 0, days*len(movies)*Languages)
	y, m, d := start.Date()
	for day := 0; day < days; day++ {
		opening := time.Date(y, m, d+day, Opening, 0, 0, 0, start.Location())
		for i, mv := range movies {
			gap := SlotLength(mv.Length)
			for lang := 1; lang <= Languages; lang++ {
				out = append(out, Screening{
					MovieID: MovieID(i, lang),
					RoomID:  i + 1,
					Start:   opening.Add(time.Duration(lang-1) * gap),
				})
			}
		}
	}
	return out
}

// WriteMovies writes one INSERT covering every language version of movies.
func WriteMovies(w io.Writer, movies []Movie) error {
	rows := make([]string, 0, len(movies)*Languages)
	for _, mv := range movies {
		for lang := 1; lang <= Languages; lang++ {
			rows = append(rows, fmt.Sprintf("('%s', %d, %d)", quote(mv.Title), mv.Length, lang))
		}
	}
	return writeInsert(w, "Movies(title, length, language_id)", rows)
}

// WriteSchedule writes one INSERT for the screenings. Seats start free.
func WriteSchedule(w io.Writer, screenings []Screening) error {
	rows := make([]string, 0, len(screenings))
	for _, s := range screenings {
		rows = append(rows, fmt.Sprintf("(%d, %d, '%s', 0)", s.MovieID, s.RoomID, s.Start.Format("2006-01-02 15:04:05")))
	}
	return writeInsert(w, "Schedule(movie_id, room_id, start_time, s_taken)", rows)
}

func writeInsert(w io.Writer, target string, rows []string) error {
	if len(rows) == 0 {
		return nil
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "INSERT INTO %s VALUES\n", target)
	for i, r := range rows {
		sep := ",\n"
		if i == len(rows)-1 {
			sep = ";\n"
		}
		bw.WriteString("\t" + r + sep)
	}
	return bw.Flush()
}

func quote(s string) string { return strings.ReplaceAll(s, "'", "''") }
