package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const samplePayload = `[
	{"moneda":"USD","casa":"oficial","nombre":"Oficial","compra":1430.5,"venta":1450.5,"fechaActualizacion":"2026-03-01T15:30:00.000Z"},
	{"moneda":"USD","casa":"blue","nombre":"Blue","compra":1480,"venta":1500,"fechaActualizacion":"2026-03-01T15:30:00.000Z"},
	{"moneda":"USD","casa":"bolsa","nombre":"Bolsa","compra":1465,"venta":1470,"fechaActualizacion":"2026-03-01T15:30:00.000Z"}
]`

func TestClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing user agent")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	quotes, err := NewClient(srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(quotes) != 3 {
		t.Fatalf("expected 3 quotes, got %d", len(quotes))
	}
	if quotes[0].House != "oficial" || quotes[0].Sell != 1450.5 {
		t.Fatalf("unexpected first quote: %+v", quotes[0])
	}
	if quotes[1].Spread() != 20 {
		t.Fatalf("blue spread = %v, want 20", quotes[1].Spread())
	}
}

func TestClientFetchErrors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed payload", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("{not json"))
		}},
		{"empty payload", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("[]"))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			if _, err := NewClient(srv.URL).Fetch(context.Background()); err == nil {
				t.Fatal("expected fetch error")
			}
		})
	}
}

func TestOfficial(t *testing.T) {
	quotes := []Quote{
		{House: "blue", Sell: 1500},
		{House: "oficial", Sell: 1450},
	}

	official, ok := Official(quotes)
	if !ok {
		t.Fatal("official quote not found")
	}
	if official.Sell != 1450 {
		t.Fatalf("official sell = %v", official.Sell)
	}

	if _, ok := Official([]Quote{{House: "blue"}}); ok {
		t.Fatal("found official in set without one")
	}
}
