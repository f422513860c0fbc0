package catalog

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/HerbHall/winegallery/pkg/models"
)

//go:embed wines.csv
var defaultRawData []byte

// ErrUnsupportedFormat is returned by LoadFile for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// LoadOptions controls tabular ingestion.
type LoadOptions struct {
	// Header treats the first row as field names. Without it, fields are
	// named by their zero-based column position.
	Header bool
}

// documentFile is the top-level structure of YAML and JSON catalogs.
type documentFile struct {
	Wines []map[string]any `yaml:"wines" json:"wines"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog built from the embedded sample dataset. The
// data is parsed on first access only.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		records, err := LoadCSV(bytes.NewReader(defaultRawData), LoadOptions{Header: true})
		if err != nil {
			defaultErr = fmt.Errorf("catalog: parse embedded csv: %w", err)
			return
		}
		defaultCatalog = New(records)
	})
	return defaultCatalog, defaultErr
}

// LoadFile reads a catalog file, picking the parser from its extension:
// .csv, .yaml/.yml or .json.
func LoadFile(path string, opts LoadOptions) ([]models.Wine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %q: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(f, opts)
	case ".yaml", ".yml":
		return LoadYAML(f)
	case ".json":
		return LoadJSON(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadCSV reads rows in order. Short rows leave the trailing fields unset,
// blank lines are skipped, and extra cells beyond the header are ignored.
func LoadCSV(r io.Reader, opts LoadOptions) ([]models.Wine, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var header []string
	var records []models.Wine
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", line, err)
		}

		if opts.Header && header == nil {
			header = make([]string, len(row))
			for i, h := range row {
				header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
			}
			continue
		}

		if isBlankRow(row) {
			continue
		}

		w := make(models.Wine, len(row))
		for i, cell := range row {
			name := strconv.Itoa(i)
			if header != nil {
				if i >= len(header) {
					break
				}
				name = header[i]
			}
			if name == "" {
				continue
			}
			w[name] = cell
		}
		records = append(records, w)
	}
	return records, nil
}

// LoadYAML reads a document with a top-level "wines" list.
func LoadYAML(r io.Reader) ([]models.Wine, error) {
	var doc documentFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("parse yaml catalog: %w", err)
	}
	return normalizeDocuments(doc.Wines), nil
}

// LoadJSON reads either a {"wines": [...]} document or a bare array.
func LoadJSON(r io.Reader) ([]models.Wine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json catalog: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var items []map[string]any
	if data[0] == '[' {
		err = json.Unmarshal(data, &items)
	} else {
		var doc documentFile
		err = json.Unmarshal(data, &doc)
		items = doc.Wines
	}
	if err != nil {
		return nil, fmt.Errorf("parse json catalog: %w", err)
	}
	return normalizeDocuments(items), nil
}

// normalizeDocuments flattens decoded values to the string form a CSV
// loader would have produced. Lists become ';'-joined strings.
func normalizeDocuments(items []map[string]any) []models.Wine {
	out := make([]models.Wine, 0, len(items))
	for _, item := range items {
		w := make(models.Wine, len(item))
		for k, v := range item {
			w[k] = stringify(v)
		}
		out = append(out, w)
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, stringify(e))
		}
		return strings.Join(parts, ";")
	default:
		return fmt.Sprint(t)
	}
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
