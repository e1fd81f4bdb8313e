package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/radhian/pix-reconciliation/usecase/billing"
	usecase "github.com/radhian/pix-reconciliation/usecase/reconciliation"
)

type ReconciliationHandler struct {
	Usecase      usecase.ReconciliationUsecase
	LookbackDays int
	validate     *validator.Validate
}

func NewReconciliationHandler(uc usecase.ReconciliationUsecase, lookbackDays int) *ReconciliationHandler {
	return &ReconciliationHandler{Usecase: uc, LookbackDays: lookbackDays, validate: validator.New()}
}

type CustomerHandler struct {
	Usecase  billing.BillingUsecase
	validate *validator.Validate
}

func NewCustomerHandler(uc billing.BillingUsecase) *CustomerHandler {
	return &CustomerHandler{Usecase: uc, validate: validator.New()}
}

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{Status: "error", Message: message})
}
