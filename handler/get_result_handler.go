package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/gommon/log"

	"github.com/radhian/pix-reconciliation/entity"
)

// GetResult returns one run when log_id is given, else the whole history.
func (h *ReconciliationHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	if !h.Usecase.KeepsHistory() {
		writeError(w, http.StatusNotFound, "run history is not kept by the configured store")
		return
	}

	logIDStr := r.URL.Query().Get("log_id")
	if logIDStr == "" {
		results, err := h.Usecase.GetReconciliationResults()
		if err != nil {
			log.Errorf("[GetResult] Failed to list results: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to get result")
			return
		}
		writeJSON(w, http.StatusOK, APIResponse{Status: "success", Data: results})
		return
	}

	logID, err := strconv.ParseInt(logIDStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "log_id must be a valid integer")
		return
	}

	result, err := h.Usecase.GetReconciliationResult(logID)
	if errors.Is(err, entity.ErrNotFound) {
		writeError(w, http.StatusNotFound, "log not found")
		return
	}
	if err != nil {
		log.Errorf("[GetResult] Failed to get log %d: %v", logID, err)
		writeError(w, http.StatusInternalServerError, "Failed to get result")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Status: "success", Data: result})
}
