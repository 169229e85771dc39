package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"

	"github.com/zombar/reviewinsights/internal/models"
)

// Format is a supported upload format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DetectFormat sniffs the content first and falls back to the file extension
func DetectFormat(data []byte, filename string) (Format, error) {
	mtype := mimetype.Detect(data)
	switch {
	case mtype.Is(xlsxMIME):
		return FormatXLSX, nil
	case mtype.Is("text/csv"):
		return FormatCSV, nil
	case mtype.Is("application/json"):
		return FormatJSON, nil
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	}

	return "", failf("unsupported file type %s", mtype.String())
}

// Parse decodes an uploaded file into rows
func Parse(data []byte, filename string) ([]Row, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, failf("file is empty")
	}

	format, err := DetectFormat(data, filename)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatXLSX:
		return parseXLSX(data)
	case FormatCSV:
		return parseCSV(data)
	default:
		return parseJSON(data)
	}
}

// Load parses data and maps the rows to reviews
func Load(data []byte, filename string) ([]models.Review, error) {
	rows, err := Parse(data, filename)
	if err != nil {
		return nil, err
	}
	return Records(rows), nil
}

// parseXLSX reads the first sheet, using its first row as the header
func parseXLSX(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, failf("failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, failf("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, failf("failed to read sheet %q: %v", sheets[0], err)
	}
	return tableRows(records), nil
}

func parseCSV(data []byte) ([]Row, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, failf("failed to parse CSV: %v", err)
		}
		records = append(records, record)
	}
	return tableRows(records), nil
}

func parseJSON(data []byte) ([]Row, error) {
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, failf("expected a JSON array of objects: %v", err)
	}
	return rows, nil
}

// tableRows converts a header row plus data rows into keyed rows. Short
// rows leave trailing columns unset; blank header cells are ignored.
func tableRows(records [][]string) []Row {
	if len(records) == 0 {
		return []Row{}
	}

	header := records[0]
	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(header))
		for i, name := range header {
			name = strings.TrimSpace(name)
			if name == "" || i >= len(record) {
				continue
			}
			row[name] = record[i]
		}
		rows = append(rows, row)
	}
	return rows
}
