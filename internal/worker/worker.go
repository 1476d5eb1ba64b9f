package worker

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"storepulse/internal/config"
	"storepulse/internal/logger"
	"storepulse/internal/report"
	"storepulse/internal/services/woocommerce"
	"storepulse/internal/webhook"
)

// Worker runs the fetch-aggregate-dispatch pipeline. A single run is
// sequential: one request at a time against the store API, one POST to
// the webhook at the end. Nothing is kept between runs.
type Worker struct {
	config     *config.Config
	logger     *logger.Logger
	client     *woocommerce.Client
	dispatcher *webhook.Dispatcher
	policy     report.Policy
	stop       chan struct{}
}

func New(cfg *config.Config, logger *logger.Logger) (*Worker, error) {
	policy, err := report.ParsePolicy(cfg.PendingPolicy, cfg.TotalOrdersPolicy)
	if err != nil {
		return nil, err
	}

	client := woocommerce.NewClient(
		cfg.WCAPIURL,
		cfg.WCConsumerKey,
		cfg.WCConsumerSecret,
		logger,
		woocommerce.WithMaxPages(cfg.MaxPages),
	)

	dispatcher := webhook.NewDispatcher(cfg.WebhookURL, cfg.Debug, logger)

	return &Worker{
		config:     cfg,
		logger:     logger,
		client:     client,
		dispatcher: dispatcher,
		policy:     policy,
		stop:       make(chan struct{}),
	}, nil
}

// RunOnce executes one full pipeline run. Any fetch or aggregation
// failure aborts the run before the webhook is called, so no partial
// payload is ever delivered.
func (w *Worker) RunOnce() error {
	runID := uuid.New()
	w.logger.Info("run %s: building %s report", runID, w.config.ReportMode)

	rep, err := w.buildReport()
	if err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}

	if err := w.dispatcher.Send(rep); err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}

	w.logger.Info("run %s: report delivered", runID)
	return nil
}

func (w *Worker) buildReport() (*report.Report, error) {
	orderParams := url.Values{}
	if w.config.LookbackDays > 0 {
		after := time.Now().AddDate(0, 0, -w.config.LookbackDays).UTC()
		orderParams.Set("after", after.Format(time.RFC3339))
	}

	orders, err := w.client.Orders(orderParams)
	if err != nil {
		return nil, err
	}
	w.logger.Debug("fetched %d orders", len(orders))

	settings, err := w.client.Settings()
	if err != nil {
		return nil, err
	}
	currencySymbol := report.ResolveCurrency(settings)

	metrics, err := report.AggregateOrders(orders, w.policy)
	if err != nil {
		return nil, err
	}

	rep := report.Build(metrics, currencySymbol, time.Now())

	switch w.config.ReportMode {
	case config.ModeLowStock:
		params := url.Values{}
		params.Set("status", woocommerce.ProductStatusPublish)
		params.Set("stock_status", woocommerce.StockStatusInStock)
		params.Set("manage_stock", "true")

		products, err := w.client.Products(params)
		if err != nil {
			return nil, err
		}
		w.logger.Debug("fetched %d products", len(products))

		rep.AttachLowStock(report.BuildLowStock(products))

	default:
		params := url.Values{}
		params.Set("status", woocommerce.ProductStatusPublish)

		products, err := w.client.Products(params)
		if err != nil {
			return nil, err
		}
		w.logger.Debug("fetched %d products", len(products))

		overview, err := report.BuildStockOverview(products, w.client)
		if err != nil {
			return nil, err
		}
		rep.StockOverview = overview
	}

	return rep, nil
}

// Start runs the pipeline immediately and then on the configured
// interval until Stop is called.
func (w *Worker) Start() {
	interval := time.Duration(w.config.WorkerIntervalMinutes) * time.Minute
	w.logger.Info("worker started, reporting every %s", interval)

	w.runAndLog()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.runAndLog()
		case <-w.stop:
			return
		}
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	close(w.stop)
}

func (w *Worker) runAndLog() {
	if err := w.RunOnce(); err != nil {
		w.logger.Error("report run failed: %v", err)
	}
}
