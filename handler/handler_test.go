package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radhian/pix-reconciliation/entity"
	"github.com/radhian/pix-reconciliation/infra/db/model"
)

type fakeReconciliationUsecase struct {
	summary  entity.RunSummary
	err      error
	days     int
	operator string
	history  bool
	logs     []model.ReconciliationProcessLog
}

func (f *fakeReconciliationUsecase) RunReconciliation(ctx context.Context, lookbackDays int, operator string) (entity.RunSummary, error) {
	f.days = lookbackDays
	f.operator = operator
	return f.summary, f.err
}

func (f *fakeReconciliationUsecase) GetReconciliationResults() ([]model.ReconciliationProcessLog, error) {
	return f.logs, nil
}

func (f *fakeReconciliationUsecase) GetReconciliationResult(logID int64) (model.ReconciliationProcessLog, error) {
	for _, l := range f.logs {
		if l.ID == logID {
			return l, nil
		}
	}
	return model.ReconciliationProcessLog{}, fmt.Errorf("log %d: %w", logID, entity.ErrNotFound)
}

func (f *fakeReconciliationUsecase) FailStaleRuns(operator string) (int, error) { return 0, nil }

func (f *fakeReconciliationUsecase) KeepsHistory() bool { return f.history }

func decodeResponse(t *testing.T, body io.Reader) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestProcessReconciliation(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		err        error
		wantStatus int
		wantDays   int
	}{
		{name: "default days", query: "", wantStatus: http.StatusOK, wantDays: 30},
		{name: "explicit days", query: "?days=7", wantStatus: http.StatusOK, wantDays: 7},
		{name: "days not a number", query: "?days=abc", wantStatus: http.StatusBadRequest},
		{name: "days out of range", query: "?days=0", wantStatus: http.StatusBadRequest},
		{name: "days above max", query: "?days=366", wantStatus: http.StatusBadRequest},
		{name: "credential missing", err: fmt.Errorf("fetch statement: %w", entity.ErrCredentialNotProvisioned), wantStatus: http.StatusServiceUnavailable, wantDays: 30},
		{name: "run in progress", err: entity.ErrRunInProgress, wantStatus: http.StatusConflict, wantDays: 30},
		{name: "upstream failure", err: fmt.Errorf("fetch statement: %w", entity.ErrUpstream), wantStatus: http.StatusBadGateway, wantDays: 30},
		{name: "unclassified failure", err: errors.New("boom"), wantStatus: http.StatusBadGateway, wantDays: 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeReconciliationUsecase{
				summary: entity.RunSummary{Message: "synchronization completed", EntriesSeen: 3, MatchesCreated: 1},
				err:     tt.err,
			}
			h := NewReconciliationHandler(uc, 30)
			rec := httptest.NewRecorder()

			h.ProcessReconciliation(rec, httptest.NewRequest(http.MethodPost, "/api/bank/sync"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantDays, uc.days)
			resp := decodeResponse(t, rec.Body)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "success", resp.Status)
				assert.Equal(t, "api", uc.operator)
				data := resp.Data.(map[string]interface{})
				assert.Equal(t, 3.0, data["entries_seen"])
				assert.Equal(t, 1.0, data["matches_created"])
			} else {
				assert.Equal(t, "error", resp.Status)
				assert.NotEmpty(t, resp.Message)
			}
		})
	}
}

func TestGetResult(t *testing.T) {
	uc := &fakeReconciliationUsecase{
		history: true,
		logs:    []model.ReconciliationProcessLog{{ID: 2, Status: 3}, {ID: 1, Status: 4}},
	}
	h := NewReconciliationHandler(uc, 30)

	t.Run("all", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetResult(rec, httptest.NewRequest(http.MethodGet, "/api/bank/sync/logs", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeResponse(t, rec.Body).Data, 2)
	})

	t.Run("by id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetResult(rec, httptest.NewRequest(http.MethodGet, "/api/bank/sync/logs?log_id=1", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetResult(rec, httptest.NewRequest(http.MethodGet, "/api/bank/sync/logs?log_id=9", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetResult(rec, httptest.NewRequest(http.MethodGet, "/api/bank/sync/logs?log_id=x", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store without history", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewReconciliationHandler(&fakeReconciliationUsecase{}, 30).GetResult(rec, httptest.NewRequest(http.MethodGet, "/api/bank/sync/logs", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestReconciliationExecution(t *testing.T) {
	uc := &fakeReconciliationUsecase{}
	h := NewReconciliationHandler(uc, 45)

	require.NoError(t, h.ReconciliationExecution(context.Background()))
	assert.Equal(t, 45, uc.days)
	assert.Equal(t, "system", uc.operator)

	uc.err = entity.ErrRunInProgress
	assert.ErrorIs(t, h.ReconciliationExecution(context.Background()), ErrNoProcessHandled)

	uc.err = entity.ErrUpstream
	assert.ErrorIs(t, h.ReconciliationExecution(context.Background()), entity.ErrUpstream)
}

type fakeBillingUsecase struct {
	err      error
	created  entity.CustomerCreate
	updated  entity.CustomerUpdate
	deleted  string
	customer map[string]entity.CustomerStatus
}

func (f *fakeBillingUsecase) GetCustomer(ctx context.Context, id string) (entity.CustomerStatus, error) {
	if f.err != nil {
		return entity.CustomerStatus{}, f.err
	}
	c, ok := f.customer[id]
	if !ok {
		return c, fmt.Errorf("customer %s: %w", id, entity.ErrNotFound)
	}
	return c, nil
}

func (f *fakeBillingUsecase) CreateCustomer(ctx context.Context, in entity.CustomerCreate) (entity.CustomerStatus, error) {
	f.created = in
	return entity.CustomerStatus{ID: "new", Name: in.Name, DueDay: *in.DueDay, Active: true, PaymentStatus: entity.PaymentStatusPending}, f.err
}

func (f *fakeBillingUsecase) UpdateCustomer(ctx context.Context, id string, update entity.CustomerUpdate) (entity.CustomerStatus, error) {
	f.updated = update
	return f.GetCustomer(ctx, id)
}

func (f *fakeBillingUsecase) DeleteCustomer(ctx context.Context, id string) error {
	f.deleted = id
	return f.err
}

func (f *fakeBillingUsecase) ListCustomerStatuses(ctx context.Context) ([]entity.CustomerStatus, error) {
	return []entity.CustomerStatus{{ID: "1", Name: "Ana", PaymentStatus: entity.PaymentStatusPaid}}, f.err
}

func (f *fakeBillingUsecase) GetDashboard(ctx context.Context) (entity.Dashboard, error) {
	return entity.Dashboard{TotalReceived: decimal.RequireFromString("580.35"), InvoicesToIssue: 2, OverdueCustomers: 1}, f.err
}

func (f *fakeBillingUsecase) ExportAccounting(ctx context.Context, w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, "Date,Customer,Amount,Document\n")
	return err
}

func TestCustomerHandler(t *testing.T) {
	h := NewCustomerHandler(&fakeBillingUsecase{})

	rec := httptest.NewRecorder()
	h.ListCustomers(rec, httptest.NewRequest(http.MethodGet, "/api/customers", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"payment_status":"paid"`)

	rec = httptest.NewRecorder()
	h.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/api/customers/dashboard", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_received":"580.35"`)

	rec = httptest.NewRecorder()
	h.ExportAccounting(rec, httptest.NewRequest(http.MethodGet, "/api/customers/export/accounting", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "accounting.csv")
	assert.Equal(t, "Date,Customer,Amount,Document\n", rec.Body.String())
}

func TestCustomerHandler_Errors(t *testing.T) {
	h := NewCustomerHandler(&fakeBillingUsecase{err: errors.New("down")})

	for _, serve := range []http.HandlerFunc{h.ListCustomers, h.Dashboard, h.ExportAccounting} {
		rec := httptest.NewRecorder()
		serve(rec, httptest.NewRequest(http.MethodGet, "/api/customers", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	}
}

func customerRequest(method, id, body string) *http.Request {
	req := httptest.NewRequest(method, "/api/customers/"+id, strings.NewReader(body))
	if id != "" {
		req = mux.SetURLVars(req, map[string]string{"id": id})
	}
	return req
}

func TestCustomerHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid", `{"name": "Ana Lima", "expected_amount": 99.9, "due_day": 31}`, http.StatusCreated},
		{"amount as text", `{"name": "Ana Lima", "expected_amount": "99.90", "due_day": 5, "active": false}`, http.StatusCreated},
		{"missing name", `{"expected_amount": 99.9, "due_day": 5}`, http.StatusBadRequest},
		{"missing amount", `{"name": "Ana Lima", "due_day": 5}`, http.StatusBadRequest},
		{"missing due day", `{"name": "Ana Lima", "expected_amount": 10}`, http.StatusBadRequest},
		{"negative amount", `{"name": "Ana Lima", "expected_amount": -1, "due_day": 5}`, http.StatusBadRequest},
		{"not json", `name=Ana`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeBillingUsecase{}
			rec := httptest.NewRecorder()

			NewCustomerHandler(uc).CreateCustomer(rec, customerRequest(http.MethodPost, "", tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "Ana Lima", uc.created.Name)
				assert.Contains(t, rec.Body.String(), `"payment_status":"pending"`)
			}
		})
	}
}

func TestCustomerHandler_GetUpdateDelete(t *testing.T) {
	uc := &fakeBillingUsecase{customer: map[string]entity.CustomerStatus{
		"7": {ID: "7", Name: "Ana", PaymentStatus: entity.PaymentStatusPaid},
	}}
	h := NewCustomerHandler(uc)

	rec := httptest.NewRecorder()
	h.GetCustomer(rec, customerRequest(http.MethodGet, "7", ""))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"payment_status":"paid"`)

	rec = httptest.NewRecorder()
	h.GetCustomer(rec, customerRequest(http.MethodGet, "8", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.UpdateCustomer(rec, customerRequest(http.MethodPatch, "7", `{"due_day": 12, "active": false}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.updated.DueDay)
	assert.Equal(t, 12, *uc.updated.DueDay)
	require.NotNil(t, uc.updated.Active)
	assert.False(t, *uc.updated.Active)
	assert.Nil(t, uc.updated.Name)

	rec = httptest.NewRecorder()
	h.UpdateCustomer(rec, customerRequest(http.MethodPatch, "8", `{"name": "X"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.UpdateCustomer(rec, customerRequest(http.MethodPatch, "7", `{"name": ""}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.DeleteCustomer(rec, customerRequest(http.MethodDelete, "7", ""))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "7", uc.deleted)
}

func TestCustomerHandler_MaintenanceStoreErrors(t *testing.T) {
	h := NewCustomerHandler(&fakeBillingUsecase{err: errors.New("down")})

	rec := httptest.NewRecorder()
	h.GetCustomer(rec, customerRequest(http.MethodGet, "7", ""))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	h.DeleteCustomer(rec, customerRequest(http.MethodDelete, "7", ""))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
