package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// go test -v --run TestGetCandles
func TestGetCandles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("instrument"); got != "RELIANCE" {
			t.Errorf("unexpected instrument: %s", got)
		}
		if got := r.URL.Query().Get("interval"); got != "5" {
			t.Errorf("unexpected interval: %s", got)
		}
		fmt.Fprint(w, `{
			"status": "success",
			"data": {
				"instrument": "RELIANCE",
				"candles": [
					["2024-03-04T09:15:00+05:30", "100.5", "103.2", "99.8", "101.0", "1500"],
					["2024-03-04T09:20:00+05:30", "101.0", "102.0", "100.1", "100.9", "900"]
				]
			}
		}`)
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	end := time.Now()
	start := end.Add(-4 * time.Hour)

	candles, err := client.GetCandles(ctx, "RELIANCE", "5", start, end)
	if err != nil {
		t.Fatalf("GetCandles returned error: %v", err)
	}

	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	if candles[0].Open != 100.5 || candles[0].High != 103.2 || candles[0].Volume != 1500 {
		t.Errorf("unexpected first candle: %+v", candles[0])
	}
}

// go test -v --run TestGetCandlesProviderError
func TestGetCandlesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "error", "message": "instrument not found"}`)
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, 5*time.Second)

	_, err := client.GetCandles(context.Background(), "NOPE", "5", time.Now().Add(-time.Hour), time.Now())
	if err == nil {
		t.Fatal("expected error for rejected request, got nil")
	}
}

// go test -v --run TestGetCandlesHTTPFailure
func TestGetCandlesHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, 5*time.Second)

	_, err := client.GetCandles(context.Background(), "RELIANCE", "5", time.Now().Add(-time.Hour), time.Now())
	if err == nil {
		t.Fatal("expected error for 500 response, got nil")
	}
}
