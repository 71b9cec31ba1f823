package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"pharmacy/m/internal/billing"
)

func TestListInventory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/inventory/in", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"_id":1,"medicineName":"Paracetamol","category":"Painkillers","price":5.5,"quantity":10,"expiryDate":"2027-01-31","supplier":"MediSupply"}]`))
	}))
	defer srv.Close()

	records, err := New(srv.URL+"/", nil).ListInventory(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.EqualValues(t, 1, records[0].ID)
	require.Equal(t, "5.50", records[0].Price.StringFixed(2))
}

func TestCreateBillSendsFormPayload(t *testing.T) {
	var got billPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/billing/addbi", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Billing added successfully","bill":{"_id":7,"customerName":"Nimal","totalAmount":25,"medicines":[{"medName":"Paracetamol","quantity":5,"price":5}]}}`))
	}))
	defer srv.Close()

	order := billing.NewOrder("Nimal", "Cash", "2026-10-18", []billing.Line{
		{MedicineName: "Paracetamol", Quantity: 5, Price: decimal.NewFromInt(5)},
	})
	bill, err := New(srv.URL, nil).CreateBill(context.Background(), order)
	require.NoError(t, err)
	require.EqualValues(t, 7, bill.ID)
	require.Equal(t, "25.00", bill.TotalAmount.StringFixed(2))

	require.Equal(t, "25.00", got.Total)
	require.Equal(t, []billLine{{MedName: "Paracetamol", Quantity: "5", Price: "5"}}, got.Medicines)
}

func TestServerMessageBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Insufficient stock for Paracetamol. Available: 10"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).CreateBill(context.Background(), billing.Order{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "Insufficient stock for Paracetamol. Available: 10", apiErr.Message)
}

func TestSessionOverHTTP(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/inventory/in":
			_, _ = w.Write([]byte(`[{"_id":1,"medicineName":"Paracetamol","price":5,"quantity":10}]`))
		case "/billing/addbi":
			calls++
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"bill":{"_id":1}}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	session, err := billing.NewSession(context.Background(), c, c, zerolog.Nop())
	require.NoError(t, err)

	f := billing.NewForm("2026-10-18")
	f.CustomerName = "Nimal"
	f.PaymentMethod = "Cash"
	f = billing.SetLineField(f, 0, billing.FieldMedicineName, "Paracetamol")
	f = billing.SetLineField(f, 0, billing.FieldQuantity, "15")
	f = billing.SetLineField(f, 0, billing.FieldPrice, "5")

	_, err = session.Submit(context.Background(), f)
	require.ErrorIs(t, err, billing.ErrStockValidation)
	require.Zero(t, calls)

	f = billing.SetLineField(f, 0, billing.FieldQuantity, "5")
	_, err = session.Submit(context.Background(), f)
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}
