package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"storepulse/internal/logger"
	"storepulse/internal/report"
)

// DeliveryError reports a failed webhook POST. The caller does not
// retry; the scheduler re-invokes the whole pipeline on its own cadence.
type DeliveryError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("webhook delivery failed: %v", e.Err)
	}
	return fmt.Sprintf("webhook delivery failed: %d - %s", e.StatusCode, e.Body)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// envelope is the wire shape the display service expects.
type envelope struct {
	MergeVariables *report.Report `json:"merge_variables"`
}

type Dispatcher struct {
	url        string
	debug      bool
	httpClient *http.Client
	logger     *logger.Logger
}

type Option func(*Dispatcher)

// WithHTTPClient replaces the default HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(d *Dispatcher) { d.httpClient = hc }
}

func NewDispatcher(url string, debug bool, logger *logger.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		url:   url,
		debug: debug,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Send wraps the report in a merge_variables envelope and POSTs it.
// In debug mode the payload is printed instead and no request is made.
func (d *Dispatcher) Send(rep *report.Report) error {
	payload, err := json.MarshalIndent(envelope{MergeVariables: rep}, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	if d.debug {
		fmt.Println(string(payload))
		d.logger.Info("debug mode: skipping webhook delivery")
		return nil
	}

	resp, err := d.httpClient.Post(d.url, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		derr := &DeliveryError{Err: err}
		d.logger.Error("%v", derr)
		return derr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		derr := &DeliveryError{StatusCode: resp.StatusCode, Body: string(body)}
		d.logger.Error("%v", derr)
		return derr
	}

	d.logger.Info("webhook delivered: %d", resp.StatusCode)
	return nil
}
