// Package snapshot persists offer snapshots as two on-disk generations
// and computes the delta between runs.
package snapshot

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"sjsage522/offerwatch/internal/scraper"
	"sjsage522/offerwatch/logger"
	"sjsage522/offerwatch/pkg/errors"
)

const (
	// LatestFile holds the most recent run's records
	LatestFile = "offers_latest.json"
	// PreviousFile lags LatestFile by exactly one run and is the diff baseline
	PreviousFile = "offers_latest.prev.json"
	// CSVFile is the human-readable export of the latest run
	CSVFile = "offers_latest.csv"
)

// csvHeader is the fixed export column order
var csvHeader = []string{"brand", "discount_percent", "title", "categories", "link"}

// Store persists the snapshot generations under a single directory.
// Read/write ordering matters: LoadPrevious must happen before
// SaveLatest, and RotatePrevious runs only after the diff has used the
// previous generation.
type Store struct {
	dir string
	log *logger.Logger
}

// NewStore creates a store rooted at dir
func NewStore(dir string) *Store {
	return &Store{dir: dir, log: logger.ForStore()}
}

// LatestPath returns the path of the latest-generation JSON file
func (s *Store) LatestPath() string {
	return filepath.Join(s.dir, LatestFile)
}

// PreviousPath returns the path of the previous-generation JSON file
func (s *Store) PreviousPath() string {
	return filepath.Join(s.dir, PreviousFile)
}

// CSVPath returns the path of the CSV export
func (s *Store) CSVPath() string {
	return filepath.Join(s.dir, CSVFile)
}

// LoadPrevious reads the previous generation. A missing or unparseable
// file means "no prior snapshot" and yields an empty list, never an
// error; corrupt history must not fail a run.
func (s *Store) LoadPrevious() []scraper.Offer {
	data, err := os.ReadFile(s.PreviousPath())
	if err != nil {
		return []scraper.Offer{}
	}

	var records []scraper.Offer
	if err := json.Unmarshal(data, &records); err != nil {
		s.log.Debug().Err(err).Msg("Previous snapshot unreadable, treating as no history")
		return []scraper.Offer{}
	}
	return records
}

// SaveLatest writes the current run's records as the latest generation
// together with the CSV export.
func (s *Store) SaveLatest(records []scraper.Offer) error {
	if err := s.writeJSON(s.LatestPath(), records); err != nil {
		return err
	}
	return s.writeCSV(s.CSVPath(), records)
}

// RotatePrevious overwrites the previous generation with the records
// the next run will diff against. Call only after LoadPrevious for the
// current run has happened.
func (s *Store) RotatePrevious(records []scraper.Offer) error {
	return s.writeJSON(s.PreviousPath(), records)
}

func (s *Store) writeJSON(path string, records []scraper.Offer) error {
	if records == nil {
		records = []scraper.Offer{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.NewStorage("failed to encode snapshot", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewStorage("failed to write snapshot "+path, err)
	}
	return nil
}

// writeCSV renders the fixed 5-column export. A missing discount is an
// empty field here; only the JSON form keeps the nil/zero distinction.
func (s *Store) writeCSV(path string, records []scraper.Offer) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewStorage("failed to create csv "+path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return errors.NewStorage("failed to write csv header", err)
	}
	for _, r := range records {
		discount := ""
		if r.DiscountPercent != nil {
			discount = strconv.Itoa(*r.DiscountPercent)
		}
		row := []string{r.Brand, discount, r.Title, r.Categories, r.Link}
		if err := w.Write(row); err != nil {
			return errors.NewStorage("failed to write csv row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.NewStorage("failed to flush csv", err)
	}
	return nil
}
