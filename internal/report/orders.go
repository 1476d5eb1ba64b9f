package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"storepulse/internal/services/woocommerce"
)

// Two deployed variants of this report disagreed on what counts as a
// pending order and whether cancelled orders count toward the total.
// Both semantics are kept as explicit policies instead of guessing one.
type (
	PendingPolicy string
	TotalPolicy   string
)

const (
	// PendingProcessingOnly counts only "processing" orders as pending.
	PendingProcessingOnly PendingPolicy = "processing"
	// PendingAndProcessing counts "pending" and "processing" orders.
	PendingAndProcessing PendingPolicy = "pending_processing"

	// TotalExcludeCancelled counts all orders except cancelled ones.
	TotalExcludeCancelled TotalPolicy = "exclude_cancelled"
	// TotalAll counts every fetched order, cancelled included.
	TotalAll TotalPolicy = "all"
)

type Policy struct {
	Pending PendingPolicy
	Total   TotalPolicy
}

func DefaultPolicy() Policy {
	return Policy{Pending: PendingProcessingOnly, Total: TotalExcludeCancelled}
}

// ParsePolicy validates the configured policy names.
func ParsePolicy(pending, total string) (Policy, error) {
	p := Policy{Pending: PendingPolicy(pending), Total: TotalPolicy(total)}
	switch p.Pending {
	case PendingProcessingOnly, PendingAndProcessing:
	default:
		return Policy{}, fmt.Errorf("unknown pending policy %q", pending)
	}
	switch p.Total {
	case TotalExcludeCancelled, TotalAll:
	default:
		return Policy{}, fmt.Errorf("unknown total orders policy %q", total)
	}
	return p, nil
}

// DataShapeError reports an upstream record whose fields cannot be
// interpreted. Aggregation aborts rather than coercing a bad monetary
// or count figure into a silently wrong report.
type DataShapeError struct {
	Resource string
	RecordID int64
	Field    string
	Err      error
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("bad %s field on %s record %d: %v", e.Field, e.Resource, e.RecordID, e.Err)
}

func (e *DataShapeError) Unwrap() error {
	return e.Err
}

type OrderMetrics struct {
	TotalSales        decimal.Decimal
	TotalOrders       int
	PendingOrders     int
	FulfilledOrders   int
	TotalSoldProducts int
}

// AggregateOrders reduces the fetched order collection into sales and
// count metrics. Cancelled orders never contribute to sales or units
// sold; their place in the order count depends on the policy.
func AggregateOrders(orders []woocommerce.Order, policy Policy) (OrderMetrics, error) {
	m := OrderMetrics{TotalSales: decimal.Zero}

	for _, order := range orders {
		cancelled := order.Status == woocommerce.StatusCancelled

		if !cancelled {
			total, err := decimal.NewFromString(order.Total)
			if err != nil {
				return OrderMetrics{}, &DataShapeError{Resource: "orders", RecordID: order.ID, Field: "total", Err: err}
			}
			m.TotalSales = m.TotalSales.Add(total)

			for _, item := range order.LineItems {
				m.TotalSoldProducts += item.Quantity
			}
		}

		if policy.Total == TotalAll || !cancelled {
			m.TotalOrders++
		}

		switch order.Status {
		case woocommerce.StatusProcessing:
			m.PendingOrders++
		case woocommerce.StatusPending:
			if policy.Pending == PendingAndProcessing {
				m.PendingOrders++
			}
		case woocommerce.StatusCompleted:
			m.FulfilledOrders++
		}
	}

	return m, nil
}

// FormatSales renders a monetary total as {symbol}{amount} with two
// decimal places, e.g. "€1234.50".
func FormatSales(symbol string, total decimal.Decimal) string {
	return symbol + total.StringFixed(2)
}
