package condocsv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/casita/internal/property"
)

// Parser reads legacy condo management CSV exports and produces property
// params. It auto-detects which vendor layout is being used by matching
// column headers against known profiles.
type Parser struct{}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]property.CreateParams, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	data, err := decodeUTF8(raw)
	if err != nil {
		return nil, err
	}

	for i := range profiles {
		profile := &profiles[i]

		rows, err := readRows(data, profile.Comma)
		if err != nil {
			continue
		}

		cols, headerIdx, ok := findHeader(profile, rows)
		if !ok {
			continue
		}

		return parseRows(profile, cols, rows[headerIdx+1:])
	}

	return nil, fmt.Errorf("no known condo export format found")
}

func readRows(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// findHeader scans rows for a header that contains every required
// column of the profile. Vendors sometimes prepend banner lines, so the
// header is not necessarily row zero.
func findHeader(p *Profile, rows [][]string) (colIndex, int, bool) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		matched := true

		for _, name := range p.requiredCols() {
			if _, ok := cols[name]; !ok {
				matched = false
				break
			}
		}

		if matched {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

// parseRows extracts properties from data rows. Rows without a usable
// name or price are dropped; one malformed listing should not sink the
// whole file.
func parseRows(p *Profile, cols colIndex, rows [][]string) ([]property.CreateParams, error) {
	var params []property.CreateParams

	for _, row := range rows {
		name := cellValue(row, cols, p.NameCol)
		if name == "" {
			continue
		}

		price, ok := parsePrice(cellValue(row, cols, p.PriceCol))
		if !ok || price <= 0 {
			continue
		}

		params = append(params, property.CreateParams{
			Name:         name,
			Description:  cellValue(row, cols, p.DescCol),
			Address:      cellValue(row, cols, p.AddrCol),
			MonthlyPrice: price,
			Bedrooms:     cellInt(row, cols, p.BedsCol),
			Bathrooms:    cellInt(row, cols, p.BathsCol),
			SizeSqm:      cellFloat(row, cols, p.SizeCol),
		})
	}

	return params, nil
}

func cellValue(row []string, cols colIndex, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func cellInt(row []string, cols colIndex, name string) int {
	n, _ := strconv.Atoi(cellValue(row, cols, name))
	return n
}

func cellFloat(row []string, cols colIndex, name string) float64 {
	f, _ := strconv.ParseFloat(cellValue(row, cols, name), 64)
	return f
}

// parsePrice converts a vendor price cell to centavos. It tolerates a
// currency marker, thousands separators and up to two decimal places,
// e.g. "₱25,000.00" or "PHP 25000".
func parsePrice(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₱")
	s = strings.TrimPrefix(s, "PHP")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if s == "" {
		return 0, false
	}

	whole, frac, hasFrac := strings.Cut(s, ".")

	pesos, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, false
	}

	centavos := int64(0)

	if hasFrac {
		if len(frac) > 2 {
			frac = frac[:2]
		}

		for len(frac) < 2 {
			frac += "0"
		}

		centavos, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, false
		}
	}

	return pesos*100 + centavos, true
}
