package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/casita/internal/importer/condocsv"
	"github.com/MrJamesThe3rd/casita/internal/property"
)

// Properties is the slice of the property layer the importer writes
// through. Imported listings go through the same validation as API
// creates.
type Properties interface {
	Create(ctx context.Context, params property.CreateParams) (*property.Property, error)
}

type Service struct {
	condoImporter Importer
	properties    Properties
}

func NewService(properties Properties) *Service {
	return &Service{
		condoImporter: condocsv.New(),
		properties:    properties,
	}
}

// Result summarizes one import run.
type Result struct {
	Imported int
	Skipped  int
}

// Import parses the upload and creates a property per parsed row. Rows
// that fail validation are skipped and counted, not fatal; a legacy
// export with one bad listing should still load the rest.
func (s *Service) Import(ctx context.Context, format Format, r io.Reader) (*Result, error) {
	var imp Importer

	switch format {
	case FormatCondoCSV:
		imp = s.condoImporter
	default:
		return nil, fmt.Errorf("unknown import format: %s", format)
	}

	rows, err := imp.Parse(r)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	for _, params := range rows {
		if _, err := s.properties.Create(ctx, params); err != nil {
			slog.Warn("skipping unimportable property", "name", params.Name, "error", err)
			result.Skipped++
			continue
		}

		result.Imported++
	}

	slog.Info("property import finished", "imported", result.Imported, "skipped", result.Skipped)

	return result, nil
}
