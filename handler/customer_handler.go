package handler

import (
	"bytes"
	"net/http"

	"github.com/labstack/gommon/log"
)

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Usecase.ListCustomerStatuses(r.Context())
	if err != nil {
		log.Errorf("[CustomerHandler] Failed to list customers: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list customers")
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Status: "success", Data: customers})
}

func (h *CustomerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Usecase.GetDashboard(r.Context())
	if err != nil {
		log.Errorf("[CustomerHandler] Failed to build dashboard: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Status: "success", Data: dashboard})
}

// ExportAccounting streams the accounting CSV as a file download.
func (h *CustomerHandler) ExportAccounting(w http.ResponseWriter, r *http.Request) {
	// buffered so a store failure can still become a JSON error
	var buf bytes.Buffer
	if err := h.Usecase.ExportAccounting(r.Context(), &buf); err != nil {
		log.Errorf("[CustomerHandler] Failed to export accounting: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to export accounting")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=accounting.csv")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
