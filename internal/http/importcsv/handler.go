package importcsv

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/batchpos/internal/catalog"
	"github.com/MrJamesThe3rd/batchpos/internal/http/respond"
	"github.com/MrJamesThe3rd/batchpos/internal/importer"
	"github.com/MrJamesThe3rd/batchpos/internal/money"
)

const maxUploadSize = 10 << 20

type Handler struct {
	parser  *importer.Parser
	catalog *catalog.Service
}

func NewHandler(parser *importer.Parser, catalog *catalog.Service) *Handler {
	return &Handler{
		parser:  parser,
		catalog: catalog,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type importedProduct struct {
	ID         uuid.UUID    `json:"id"`
	ColorName  string       `json:"colorName"`
	UnitPrice  money.Amount `json:"unitPrice"`
	StockCount int          `json:"stockCount"`
}

type importSuccessResponse struct {
	Imported int               `json:"imported"`
	Charset  string            `json:"charset"`
	Products []importedProduct `json:"products"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.BadRequest(w, "failed to parse form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	res, err := h.parser.Parse(file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	products, err := h.catalog.CreateBatch(r.Context(), res.Products)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	slog.Info("catalog imported", "file", header.Filename, "charset", res.Charset, "products", len(products))

	resp := importSuccessResponse{
		Imported: len(products),
		Charset:  res.Charset,
		Products: make([]importedProduct, 0, len(products)),
	}

	for _, p := range products {
		resp.Products = append(resp.Products, importedProduct{
			ID:         p.ID,
			ColorName:  p.ColorName,
			UnitPrice:  p.UnitPrice,
			StockCount: p.StockCount,
		})
	}

	respond.JSON(w, http.StatusCreated, resp)
}
