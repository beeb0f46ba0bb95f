package checkout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"takeout-storefront/internal/domain"
)

func TestTotalDue(t *testing.T) {
	cases := []struct {
		subtotal, shipping, discount int64
		want                         int64
	}{
		{300, 50, 100, 250},
		{300, 0, 0, 300},
		{100, 20, 500, 0}, // floored, never negative
	}
	for _, tc := range cases {
		got := TotalDue(decimal.NewFromInt(tc.subtotal), decimal.NewFromInt(tc.shipping), decimal.NewFromInt(tc.discount))
		if !got.Equal(decimal.NewFromInt(tc.want)) {
			t.Fatalf("TotalDue(%d,%d,%d) = %s, want %d", tc.subtotal, tc.shipping, tc.discount, got, tc.want)
		}
	}
}

func orderRequest() domain.OrderRequest {
	return domain.OrderRequest{
		MerchantID:    7,
		PaymentMethod: "wallet",
		Lines: []domain.OrderLine{
			{ItemID: 1, Name: "Mohinga", UnitPrice: decimal.NewFromInt(100), Quantity: 2},
		},
		TotalDue: decimal.NewFromInt(200),
	}
}

func TestSubmitHappyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.Write([]byte(`{"orderId":"ord-1","status":"confirmed","totalDue":"200"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	conf, err := client.Submit(context.Background(), orderRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conf.OrderID != "ord-1" || conf.Status != "confirmed" {
		t.Fatalf("unexpected confirmation: %+v", conf)
	}
}

func TestSubmitKeepsRejectionCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code":"ORDER_REJECTED","message":"merchant closed"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	_, err := client.Submit(context.Background(), orderRequest())
	if domain.CodeOf(err) != domain.CodeOrderRejected {
		t.Fatalf("expected ORDER_REJECTED, got %v", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	client := NewClient("http://unused", time.Second, nil)

	bad := orderRequest()
	bad.Lines = nil
	if _, err := client.Submit(context.Background(), bad); domain.CodeOf(err) != domain.CodeValidation {
		t.Fatalf("expected VALIDATION, got %v", err)
	}
}
