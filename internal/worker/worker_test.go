package worker_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storepulse/internal/config"
	"storepulse/internal/logger"
	"storepulse/internal/report"
	"storepulse/internal/services/woocommerce"
	"storepulse/internal/worker"
)

// fakeStore is an in-memory WooCommerce API good for one pipeline run.
type fakeStore struct {
	ordersPages []string
	products    string
	variations  map[string]string
	currency    string
	failOrders  bool
}

func (s *fakeStore) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		switch {
		case r.URL.Path == "/orders":
			if s.failOrders {
				http.Error(w, "upstream exploded", http.StatusInternalServerError)
				return
			}
			var n int
			fmt.Sscanf(page, "%d", &n)
			if n <= len(s.ordersPages) {
				fmt.Fprint(w, s.ordersPages[n-1])
			} else {
				fmt.Fprint(w, `[]`)
			}
		case r.URL.Path == "/settings/general":
			fmt.Fprintf(w, `[{"id": "woocommerce_currency", "value": %q}]`, s.currency)
		case r.URL.Path == "/products":
			if page == "1" {
				fmt.Fprint(w, s.products)
			} else {
				fmt.Fprint(w, `[]`)
			}
		default:
			if body, ok := s.variations[r.URL.Path]; ok && page == "1" {
				fmt.Fprint(w, body)
				return
			}
			fmt.Fprint(w, `[]`)
		}
	})
}

type capturedPayload struct {
	MergeVariables *report.Report `json:"merge_variables"`
}

func newWorker(t *testing.T, store *fakeStore, cfg *config.Config) (*worker.Worker, *int, func() *capturedPayload) {
	t.Helper()

	storeServer := httptest.NewServer(store.handler())
	t.Cleanup(storeServer.Close)

	var posts int
	var payload capturedPayload
	hookServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts++
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
	}))
	t.Cleanup(hookServer.Close)

	cfg.WCAPIURL = storeServer.URL
	cfg.WCConsumerKey = "ck"
	cfg.WCConsumerSecret = "cs"
	cfg.WebhookURL = hookServer.URL

	w, err := worker.New(cfg, logger.New("error"))
	require.NoError(t, err)
	return w, &posts, func() *capturedPayload { return &payload }
}

func baseConfig() *config.Config {
	return &config.Config{
		MaxPages:          100,
		ReportMode:        config.ModeSummary,
		PendingPolicy:     string(report.PendingProcessingOnly),
		TotalOrdersPolicy: string(report.TotalExcludeCancelled),
		LogLevel:          "error",
	}
}

func TestRunOnceSummaryReport(t *testing.T) {
	store := &fakeStore{
		ordersPages: []string{
			`[{"id": 1, "status": "completed", "total": "1000.00", "line_items": [{"quantity": 2}]},
			  {"id": 2, "status": "processing", "total": "234.50", "line_items": [{"quantity": 1}]}]`,
			`[{"id": 3, "status": "cancelled", "total": "50.00", "line_items": [{"quantity": 4}]}]`,
		},
		products: `[{"id": 10, "name": "Mug", "status": "publish", "type": "simple", "stock_status": "instock", "stock_quantity": 3},
			{"id": 11, "name": "Shirt", "status": "publish", "type": "variable"}]`,
		variations: map[string]string{
			"/products/11/variations": `[{"id": 110, "stock_status": "instock", "stock_quantity": 3},
				{"id": 111, "stock_status": "outofstock", "stock_quantity": null},
				{"id": 112, "stock_status": "outofstock", "stock_quantity": 5}]`,
		},
		currency: "EUR",
	}

	w, posts, payload := newWorker(t, store, baseConfig())
	require.NoError(t, w.RunOnce())
	require.Equal(t, 1, *posts)

	rep := payload().MergeVariables
	require.NotNil(t, rep)
	assert.Equal(t, "€1234.50", rep.TotalSales)
	assert.Equal(t, 2, rep.TotalOrders)
	assert.Equal(t, 1, rep.PendingOrders)
	assert.Equal(t, 1, rep.FulfilledOrders)
	assert.Equal(t, 3, rep.TotalSoldProducts)
	assert.NotEmpty(t, rep.UpdatedAt)

	require.Len(t, rep.StockOverview, 2)
	assert.Equal(t, "Shirt", rep.StockOverview[0].Name, "variable product sums to 8 and sorts first")
	assert.Equal(t, 8, rep.StockOverview[0].Stock)
	assert.Equal(t, "✓", rep.StockOverview[0].InStock)
	assert.Equal(t, "Mug", rep.StockOverview[1].Name)
	assert.Nil(t, rep.LowStockTotal)
}

func TestRunOnceLowStockReport(t *testing.T) {
	store := &fakeStore{
		ordersPages: []string{`[{"id": 1, "status": "completed", "total": "10.00"}]`},
		products: `[{"id": 10, "name": "Mug", "status": "publish", "type": "simple", "manage_stock": true, "stock_status": "instock", "stock_quantity": 2},
			{"id": 11, "name": "Poster", "status": "publish", "type": "simple", "manage_stock": true, "stock_status": "instock", "stock_quantity": 40}]`,
		currency: "USD",
	}

	cfg := baseConfig()
	cfg.ReportMode = config.ModeLowStock

	w, posts, payload := newWorker(t, store, cfg)
	require.NoError(t, w.RunOnce())
	require.Equal(t, 1, *posts)

	rep := payload().MergeVariables
	require.NotNil(t, rep)
	assert.Empty(t, rep.StockOverview)
	require.Len(t, rep.LowStock, 1)
	assert.Equal(t, "Mug", rep.LowStock[0].Name)
	require.NotNil(t, rep.LowStockTotal)
	assert.Equal(t, 1, *rep.LowStockTotal)
}

func TestRunOnceUpstreamFailureSkipsWebhook(t *testing.T) {
	store := &fakeStore{failOrders: true, currency: "USD", products: `[]`}

	w, posts, _ := newWorker(t, store, baseConfig())
	err := w.RunOnce()
	require.Error(t, err)

	var fetchErr *woocommerce.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "orders", fetchErr.Resource)
	assert.Equal(t, 0, *posts, "no payload may reach the webhook after a fetch failure")
}

func TestRunOnceLookbackWindowParameter(t *testing.T) {
	var after string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/orders" {
			after = r.URL.Query().Get("after")
		}
		if r.URL.Path == "/settings/general" {
			fmt.Fprint(w, `[]`)
			return
		}
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	cfg := baseConfig()
	cfg.LookbackDays = 30
	cfg.Debug = true // keep the webhook out of this test
	cfg.WCAPIURL = server.URL
	cfg.WCConsumerKey = "ck"
	cfg.WCConsumerSecret = "cs"

	w, err := worker.New(cfg, logger.New("error"))
	require.NoError(t, err)
	require.NoError(t, w.RunOnce())

	assert.NotEmpty(t, after, "orders fetch must carry the after filter")
}

func TestNewRejectsUnknownPolicy(t *testing.T) {
	cfg := baseConfig()
	cfg.PendingPolicy = "whatever"

	_, err := worker.New(cfg, logger.New("error"))
	require.Error(t, err)
}
