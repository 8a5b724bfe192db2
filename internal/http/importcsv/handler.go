package importcsv

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/casita/internal/http/api"
	"github.com/MrJamesThe3rd/casita/internal/importer"
)

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type importResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		api.Fail(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatCondoCSV
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	result, err := h.svc.Import(r.Context(), format, file)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	api.JSON(w, http.StatusOK, importResponse{
		Imported: result.Imported,
		Skipped:  result.Skipped,
	})
}
