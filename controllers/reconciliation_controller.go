package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/radhian/pix-reconciliation/handler"
)

func RegisterReconciliationRoutes(router *mux.Router, h *handler.ReconciliationHandler) {
	router.HandleFunc("/api/bank/sync", h.ProcessReconciliation).Methods("POST")
	router.HandleFunc("/api/bank/sync/logs", h.GetResult).Methods("GET")
}

func RegisterCustomerRoutes(router *mux.Router, h *handler.CustomerHandler) {
	router.HandleFunc("/api/customers", h.ListCustomers).Methods("GET")
	router.HandleFunc("/api/customers/dashboard", h.Dashboard).Methods("GET")
	router.HandleFunc("/api/customers/export/accounting", h.ExportAccounting).Methods("GET")
	router.HandleFunc("/api/customers", h.CreateCustomer).Methods("POST")
	// after the fixed paths so "dashboard" is not taken for an id
	router.HandleFunc("/api/customers/{id}", h.GetCustomer).Methods("GET")
	router.HandleFunc("/api/customers/{id}", h.UpdateCustomer).Methods("PATCH")
	router.HandleFunc("/api/customers/{id}", h.DeleteCustomer).Methods("DELETE")
}

func Home(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(handler.APIResponse{
		Status:  "success",
		Message: "PIX reconciliation API",
	})
}
