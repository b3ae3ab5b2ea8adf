package batch

import (
	"archive/zip"
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/batchpos/internal/batch"
	"github.com/MrJamesThe3rd/batchpos/internal/export"
	"github.com/MrJamesThe3rd/batchpos/internal/http/respond"
)

type Handler struct {
	svc    *batch.Service
	export *export.Service
}

func NewHandler(svc *batch.Service, exportSvc *export.Service) *Handler {
	return &Handler{svc: svc, export: exportSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/end", h.end)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/export", h.download)
}

func (h *Handler) end(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.EndBatch(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(b))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	bs, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(bs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(b))
}

// download serves the batch report as CSV, or with ?format=zip as an archive holding
// the CSV and a plain-text summary.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format != "" && format != "csv" && format != "zip" {
		respond.BadRequest(w, "format must be csv or zip")
		return
	}

	report, err := h.export.Report(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	// Render fully before writing headers so a failure can still become a 500.
	var csvBuf bytes.Buffer
	if err := h.export.WriteCSV(&csvBuf, report); err != nil {
		respond.Error(w, r, err)
		return
	}

	if format != "zip" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", export.Filename(report.Batch, "csv")))

		if _, err := w.Write(csvBuf.Bytes()); err != nil {
			slog.Error("failed to write csv", "error", err)
		}

		return
	}

	var zipBuf bytes.Buffer

	zipWriter := zip.NewWriter(&zipBuf)

	files := []struct {
		name string
		data []byte
	}{
		{name: "report.csv", data: csvBuf.Bytes()},
		{name: "summary.txt", data: []byte(h.export.GenerateSummary(report))},
	}

	for _, f := range files {
		zf, err := zipWriter.Create(f.name)
		if err != nil {
			respond.Error(w, r, fmt.Errorf("creating %s: %w", f.name, err))
			return
		}

		if _, err := zf.Write(f.data); err != nil {
			respond.Error(w, r, fmt.Errorf("writing %s: %w", f.name, err))
			return
		}
	}

	if err := zipWriter.Close(); err != nil {
		respond.Error(w, r, fmt.Errorf("closing zip: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(report.Batch, "zip")))

	if _, err := w.Write(zipBuf.Bytes()); err != nil {
		slog.Error("failed to create zip", "error", err)
	}
}
