package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/gommon/log"

	"github.com/radhian/pix-reconciliation/entity"
)

const operatorAPI = "api"

// ProcessReconciliation runs a bank sync synchronously and returns its summary.
func (h *ReconciliationHandler) ProcessReconciliation(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseSyncRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.Usecase.RunReconciliation(r.Context(), req.LookbackDays, operatorAPI)
	if err != nil {
		status, message := syncErrorStatus(err)
		log.Errorf("[BankSyncHandler] Sync failed with status %d: %v", status, err)
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Status:  "success",
		Message: summary.Message,
		Data:    summary,
	})
}

func (h *ReconciliationHandler) parseSyncRequest(r *http.Request) (entity.SyncRequest, error) {
	req := entity.SyncRequest{LookbackDays: h.LookbackDays}
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return req, errors.New("days must be a valid integer")
		}
		req.LookbackDays = days
	}
	if err := h.validate.Struct(req); err != nil {
		return req, errors.New("days must be between 1 and 365")
	}
	return req, nil
}

func syncErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, entity.ErrCredentialNotProvisioned):
		return http.StatusServiceUnavailable, "bank certificates are not provisioned: " + err.Error()
	case errors.Is(err, entity.ErrRunInProgress):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusBadGateway, "bank sync failed: " + err.Error()
	}
}
