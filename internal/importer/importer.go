package importer

import (
	"io"

	"github.com/MrJamesThe3rd/casita/internal/property"
)

type Format string

const (
	FormatCondoCSV Format = "condocsv"
)

type Importer interface {
	Parse(r io.Reader) ([]property.CreateParams, error)
}
