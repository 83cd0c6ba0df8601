package fintidy

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fintidy/date"
)

// This file imports Fidelity "Full View" transaction CSV exports. Column
// matching is by header name, order independent; columns the importer does
// not recognize are preserved as extras and participate in fingerprinting.

var (
	errMissingHeader = errors.New("export has no header row")
	errBadRow        = errors.New("row does not parse")
)

// Recognized header names, compared case-insensitively after trimming.
const (
	colDate        = "date"
	colAccount     = "account"
	colDescription = "description"
	colCategory    = "category"
	colAmount      = "amount"
	colInstitution = "institution"
	colHidden      = "is hidden"
	colPending     = "is pending"
)

// ImportStats summarizes one import run.
type ImportStats struct {
	Files     int // files read
	Rows      int // data rows read
	Invalid   int // rows dropped because date or amount did not parse
	Coalesced int // rows merged into an earlier identical row of the same file
	Dropped   int // rows dropped as cross-file duplicates
}

// ImportFiles reads all export files matching the glob pattern and returns the
// cleaned, de-duplicated transactions. Files that cannot be read are skipped
// with a warning on 'warn'. Zero matching files is not an error.
func ImportFiles(pattern, currency string, warn io.Writer) ([]Transaction, ImportStats, error) {
	var stats ImportStats

	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, stats, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	sort.Strings(files)

	var rows []Transaction
	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			fmt.Fprintf(warn, "warning: skipping %s: %v\n", file, err)
			continue
		}
		imported, invalid, err := ReadExport(f, filepath.Base(file), currency, warn)
		f.Close()
		if err != nil {
			fmt.Fprintf(warn, "warning: skipping %s: %v\n", file, err)
			continue
		}
		stats.Files++
		stats.Rows += len(imported) + invalid
		stats.Invalid += invalid
		rows = append(rows, imported...)
	}

	coalesced := Coalesce(rows)
	stats.Coalesced = len(rows) - len(coalesced)
	deduped := Dedupe(coalesced)
	stats.Dropped = len(coalesced) - len(deduped)
	return deduped, stats, nil
}

// ReadExport reads a single export, tagging every row with the source name.
// Rows whose date or amount do not parse are dropped and counted in invalid.
func ReadExport(r io.Reader, source, currency string, warn io.Writer) (rows []Transaction, invalid int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // exports are ragged often enough

	header, err := reader.Read()
	if err == io.EOF {
		return nil, 0, errMissingHeader
	}
	if err != nil {
		return nil, 0, fmt.Errorf("cannot read header: %w", err)
	}

	known := make(map[string]int) // canonical column name -> index
	var extraCols []int           // indexes of unrecognized columns
	for i, name := range header {
		canonical := strings.ToLower(strings.TrimSpace(name))
		switch canonical {
		case colDate, colAccount, colDescription, colCategory, colAmount, colInstitution, colHidden, colPending:
			known[canonical] = i
		default:
			extraCols = append(extraCols, i)
		}
	}
	if _, ok := known[colDate]; !ok {
		return nil, 0, fmt.Errorf("%w: no %q column in %v", errBadRow, colDate, header)
	}
	if _, ok := known[colAmount]; !ok {
		return nil, 0, fmt.Errorf("%w: no %q column in %v", errBadRow, colAmount, header)
	}

	field := func(record []string, col string) string {
		i, ok := known[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			fmt.Fprintf(warn, "warning: %s line %d: %v\n", source, line, err)
			invalid++
			continue
		}

		day, err := date.Parse(field(record, colDate))
		if err != nil {
			fmt.Fprintf(warn, "warning: %s line %d: %v\n", source, line, err)
			invalid++
			continue
		}
		amount, err := ParseAmount(field(record, colAmount), currency)
		if err != nil {
			fmt.Fprintf(warn, "warning: %s line %d: %v\n", source, line, err)
			invalid++
			continue
		}

		tx := Transaction{
			Date:        day,
			Account:     field(record, colAccount),
			Description: field(record, colDescription),
			Category:    field(record, colCategory),
			Amount:      amount,
			Institution: field(record, colInstitution),
			Hidden:      parseFlag(field(record, colHidden)),
			Pending:     parseFlag(field(record, colPending)),
			Source:      source,
		}
		for _, i := range extraCols {
			if i >= len(record) {
				continue
			}
			tx.Extras = append(tx.Extras, Extra{
				Name:  strings.TrimSpace(header[i]),
				Value: strings.TrimSpace(record[i]),
			})
		}
		tx.Seal()
		rows = append(rows, tx)
	}
	return rows, invalid, nil
}

// parseFlag maps the export's yes/no flags to bool. Anything unrecognized is
// false.
func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true":
		return true
	default:
		return false
	}
}
