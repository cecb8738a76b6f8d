package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dropsync/catalog/internal/domain"
)

// listColumns are split into lists on "|" (preferred) or ","
var listColumns = map[string]bool{
	"images": true,
	"tags":   true,
}

// Format is a supported bulk import file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromFilename picks the format from the file extension
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, filepath.Ext(name))
	}
}

// ReadProducts parses a bulk import file into raw product payloads, one per non-empty row.
// The first row is the header.
func ReadProducts(r io.Reader, format Format) ([]map[string]any, error) {
	var (
		rows [][]string
		err  error
	)

	switch format {
	case FormatCSV:
		rows, err = readCSV(r)
	case FormatXLSX:
		rows, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, format)
	}
	if err != nil {
		return nil, err
	}

	return rowsToProducts(rows)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: error reading line %d: %v", domain.ErrInvalidRequest, len(rows)+1, err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open Excel file: %v", domain.ErrInvalidRequest, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no sheets found in Excel file", domain.ErrInvalidRequest)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet: %v", domain.ErrInvalidRequest, err)
	}
	return rows, nil
}

func rowsToProducts(rows [][]string) ([]map[string]any, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: file has no header row", domain.ErrInvalidRequest)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	products := make([]map[string]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		product := make(map[string]any)
		for i, cell := range row {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			value := strings.TrimSpace(cell)
			if value == "" {
				continue
			}
			if listColumns[strings.ToLower(headers[i])] {
				product[headers[i]] = splitList(value)
			} else {
				product[headers[i]] = value
			}
		}
		if len(product) > 0 {
			products = append(products, product)
		}
	}

	return products, nil
}

func splitList(value string) []any {
	sep := ","
	if strings.Contains(value, "|") {
		sep = "|"
	}

	items := make([]any, 0)
	for _, part := range strings.Split(value, sep) {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
