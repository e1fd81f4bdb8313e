package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/labstack/gommon/log"

	"github.com/radhian/pix-reconciliation/entity"
)

const customerNotFoundMessage = "Customer not found"

func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	customer, err := h.Usecase.GetCustomer(r.Context(), id)
	if err != nil {
		h.writeCustomerError(w, "get", id, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Status: "success", Data: customer})
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req entity.CustomerCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid customer: %v", err))
		return
	}
	if req.ExpectedAmount.IsNegative() {
		writeError(w, http.StatusBadRequest, "expected_amount must not be negative")
		return
	}

	customer, err := h.Usecase.CreateCustomer(r.Context(), req)
	if err != nil {
		log.Errorf("[CustomerHandler] Failed to create customer: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create customer")
		return
	}
	writeJSON(w, http.StatusCreated, APIResponse{Status: "success", Data: customer})
}

func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req entity.CustomerUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid customer: %v", err))
		return
	}
	if req.ExpectedAmount != nil && req.ExpectedAmount.IsNegative() {
		writeError(w, http.StatusBadRequest, "expected_amount must not be negative")
		return
	}

	customer, err := h.Usecase.UpdateCustomer(r.Context(), id, req)
	if err != nil {
		h.writeCustomerError(w, "update", id, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Status: "success", Data: customer})
}

func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Usecase.DeleteCustomer(r.Context(), id); err != nil {
		log.Errorf("[CustomerHandler] Failed to delete customer %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete customer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CustomerHandler) writeCustomerError(w http.ResponseWriter, op, id string, err error) {
	if errors.Is(err, entity.ErrNotFound) {
		writeError(w, http.StatusNotFound, customerNotFoundMessage)
		return
	}
	log.Errorf("[CustomerHandler] Failed to %s customer %s: %v", op, id, err)
	writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to %s customer", op))
}
