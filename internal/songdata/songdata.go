// package songdata supplies catalogue rows from CSV files.
//
// The catalogue itself never touches the filesystem; this package is the
// collaborator that does. A small embedded song list ships as a fallback so
// the bridge can start without a 곡순서.csv on disk.
package songdata

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/Ckr1111/darlybot/internal/catalogue"
	"github.com/Ckr1111/darlybot/internal/shared"
)

//go:embed default_songs.csv
var defaultSongs []byte

// CSVFile reads the song order from a CSV file on disk.
type CSVFile struct {
	Path string
}

// NewCSVFile creates a source for the given path.
func NewCSVFile(path string) *CSVFile {
	return &CSVFile{Path: path}
}

// Read implements [catalogue.RowSource]. A missing file wraps
// [shared.ErrCatalogueNotFound] so the caller can fall back or abort.
func (s *CSVFile) Read() (catalogue.Table, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return catalogue.Table{}, fmt.Errorf("%w: %s", shared.ErrCatalogueNotFound, s.Path)
		}
		return catalogue.Table{}, fmt.Errorf("failed to open catalogue: %w", err)
	}
	defer f.Close()

	return parse(f)
}

// Embedded returns the bundled default song list.
func Embedded() catalogue.RowSource {
	return readerSource{bytes.NewReader(defaultSongs)}
}

// FromReader wraps an arbitrary reader as a row source, mainly for tests.
func FromReader(r io.Reader) catalogue.RowSource {
	return readerSource{r}
}

type readerSource struct {
	r io.Reader
}

func (s readerSource) Read() (catalogue.Table, error) {
	return parse(s.r)
}

// parse decodes header + rows. The CSV may carry a UTF-8 BOM (the song list
// is usually edited in Excel) and rows shorter than the header.
func parse(r io.Reader) (catalogue.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return catalogue.Table{}, fmt.Errorf("%w: %v", shared.ErrMalformedCatalogue, err)
	}
	if len(records) == 0 {
		return catalogue.Table{}, fmt.Errorf("%w: no header row", shared.ErrMalformedCatalogue)
	}

	columns := records[0]
	if len(columns) > 0 {
		columns[0] = strings.TrimPrefix(columns[0], "\uFEFF")
	}

	table := catalogue.Table{Columns: columns}
	for _, record := range records[1:] {
		row := make(catalogue.Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
