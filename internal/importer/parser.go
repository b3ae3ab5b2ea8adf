// Package importer reads product lists exported from spreadsheets.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/batchpos/internal/apperr"
	"github.com/MrJamesThe3rd/batchpos/internal/catalog"
	enc "github.com/MrJamesThe3rd/batchpos/internal/encoding"
	"github.com/MrJamesThe3rd/batchpos/internal/money"
)

const (
	colColor  = "colorName"
	colWeight = "unitWeight"
	colPrice  = "unitPrice"
	colStock  = "stockCount"
)

// column describes one field of the import file and the header spellings it accepts.
type column struct {
	key      string
	required bool
	aliases  []string
}

var columns = []column{
	{key: colColor, required: true, aliases: []string{"colorname", "color", "colour", "cor"}},
	{key: colWeight, aliases: []string{"unitweight", "weight", "weightg", "peso"}},
	{key: colPrice, required: true, aliases: []string{"unitprice", "price", "preco", "preço"}},
	{key: colStock, aliases: []string{"stockcount", "stock", "qty", "quantity", "quantidade"}},
}

// colIndex maps column keys to their index in the row.
type colIndex map[string]int

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Result holds the parsed rows and the charset the file was decoded from.
type Result struct {
	Products []catalog.CreateParams
	Charset  string
}

// Parse reads a semicolon- or comma-separated product list. Blank lines are skipped and
// any malformed row fails the whole file with its line number.
func (p *Parser) Parse(r io.Reader) (*Result, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectSeparator(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := readRecords(reader)
	if err != nil {
		return nil, err
	}

	cols, headerIdx, ok := detectHeader(rows)
	if !ok {
		return nil, apperr.Invalid("file", "missing header with colorName and unitPrice columns")
	}

	products, err := parseRows(cols, rows[headerIdx+1:])
	if err != nil {
		return nil, err
	}

	if len(products) == 0 {
		return nil, apperr.Invalid("file", "no product rows")
	}

	return &Result{Products: products, Charset: utf8r.Charset}, nil
}

// record is a csv row with the 1-based line it started on.
type record struct {
	line  int
	cells []string
}

func readRecords(reader *csv.Reader) ([]record, error) {
	var rows []record

	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}

		if err != nil {
			return nil, apperr.Invalid("file", fmt.Sprintf("not a valid csv: %v", err))
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, record{line: line, cells: cells})
	}
}

// detectSeparator picks whichever of ';' and ',' occurs more often on the first line.
func detectSeparator(data []byte) rune {
	line, _, _ := bytes.Cut(data, []byte("\n"))

	if bytes.Count(line, []byte(";")) >= bytes.Count(line, []byte(",")) && bytes.Contains(line, []byte(";")) {
		return ';'
	}

	return ','
}

// detectHeader returns the first row that names every required column.
func detectHeader(rows []record) (colIndex, int, bool) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row.cells {
			if key, ok := lookupColumn(cell); ok {
				if _, seen := cols[key]; !seen {
					cols[key] = i
				}
			}
		}

		if hasRequired(cols) {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

func lookupColumn(header string) (string, bool) {
	name := normalizeHeader(header)

	for _, c := range columns {
		for _, alias := range c.aliases {
			if name == alias {
				return c.key, true
			}
		}
	}

	return "", false
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '(', ')', '.':
			return -1
		}

		return r
	}, s)
}

func hasRequired(cols colIndex) bool {
	for _, c := range columns {
		if _, ok := cols[c.key]; c.required && !ok {
			return false
		}
	}

	return true
}

// parseRows converts data rows into create params.
func parseRows(cols colIndex, rows []record) ([]catalog.CreateParams, error) {
	var products []catalog.CreateParams

	for _, row := range rows {
		if isBlank(row.cells) {
			continue
		}

		params, err := parseRow(cols, row.cells)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row.line, err)
		}

		products = append(products, params)
	}

	return products, nil
}

func parseRow(cols colIndex, row []string) (catalog.CreateParams, error) {
	var params catalog.CreateParams

	params.ColorName = cellValue(row, cols, colColor)
	if params.ColorName == "" {
		return params, apperr.Invalid(colColor, "must not be empty")
	}

	price, err := parseDecimal(cellValue(row, cols, colPrice))
	if err != nil {
		return params, apperr.Invalid(colPrice, err.Error())
	}

	if params.UnitPrice, err = money.FromDecimal(price); err != nil {
		return params, apperr.Invalid(colPrice, err.Error())
	}

	if s := cellValue(row, cols, colWeight); s != "" {
		if params.UnitWeight, err = parseDecimal(s); err != nil {
			return params, apperr.Invalid(colWeight, err.Error())
		}
	}

	if s := cellValue(row, cols, colStock); s != "" {
		if params.StockCount, err = strconv.Atoi(s); err != nil {
			return params, apperr.Invalid(colStock, fmt.Sprintf("%q is not a whole number", s))
		}
	}

	return params, nil
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, cols colIndex, key string) string {
	idx, ok := cols[key]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
