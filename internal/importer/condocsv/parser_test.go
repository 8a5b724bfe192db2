package condocsv_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/casita/internal/importer/condocsv"
)

func TestParser_GenericFormat(t *testing.T) {
	input := strings.Join([]string{
		"name,description,address,monthly_price,bedrooms,bathrooms,size_sqm",
		"Tower A Unit 1202,Corner unit,123 Ayala Ave,\"25,000.00\",2,1,54.5",
		"Tower B Unit 803,,456 BGC Drive,18000,1,1,32",
	}, "\n")

	parser := condocsv.New()
	params, err := parser.Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, "Tower A Unit 1202", params[0].Name)
	assert.Equal(t, "123 Ayala Ave", params[0].Address)
	assert.Equal(t, int64(25_000_00), params[0].MonthlyPrice)
	assert.Equal(t, 2, params[0].Bedrooms)
	assert.Equal(t, 54.5, params[0].SizeSqm)

	assert.Equal(t, int64(18_000_00), params[1].MonthlyPrice)
}

func TestParser_CondoManagerFormat(t *testing.T) {
	input := strings.Join([]string{
		"Export generated 2026-01-05",
		"",
		"Unit Name;Details;Building Address;Monthly Rate;Bedrooms;Bathrooms;Floor Area (sqm)",
		"Penthouse 40A;Full amenities;789 Roxas Blvd;PHP 120,000;3;3;210",
	}, "\n")

	parser := condocsv.New()
	params, err := parser.Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, "Penthouse 40A", params[0].Name)
	assert.Equal(t, int64(120_000_00), params[0].MonthlyPrice)
	assert.Equal(t, 3, params[0].Bedrooms)
}

func TestParser_Windows1252Input(t *testing.T) {
	input := "name,description,address,monthly_price,bedrooms,bathrooms,size_sqm\n" +
		"Peñafrancia Suite,Muñoz corner unit,12 Peñafrancia St,30000,1,1,40\n"

	encoded, err := charmap.Windows1252.NewEncoder().String(input)
	require.NoError(t, err)

	parser := condocsv.New()
	params, err := parser.Parse(strings.NewReader(encoded))

	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "Peñafrancia Suite", params[0].Name)
	assert.Equal(t, "12 Peñafrancia St", params[0].Address)
}

func TestParser_UTF8BOMStripped(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})
	buf.WriteString("name,description,address,monthly_price,bedrooms,bathrooms,size_sqm\n")
	buf.WriteString("Studio 5C,,9 Ortigas Ave,15000,0,1,24\n")

	parser := condocsv.New()
	params, err := parser.Parse(&buf)

	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "Studio 5C", params[0].Name)
}

func TestParser_SkipsMalformedRows(t *testing.T) {
	input := strings.Join([]string{
		"name,description,address,monthly_price,bedrooms,bathrooms,size_sqm",
		",missing name,1 Somewhere St,10000,1,1,20",
		"Bad Price Unit,,2 Somewhere St,free,1,1,20",
		"Good Unit,,3 Somewhere St,12000,1,1,20",
	}, "\n")

	parser := condocsv.New()
	params, err := parser.Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "Good Unit", params[0].Name)
}

func TestParser_UnknownFormat(t *testing.T) {
	input := "colA|colB|colC\n1|2|3\n"

	parser := condocsv.New()
	_, err := parser.Parse(strings.NewReader(input))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no known condo export format")
}
