package report

import (
	"sort"

	"storepulse/internal/services/woocommerce"
)

// In-stock marks as rendered on the display device.
const (
	inStockMark    = "✓"
	outOfStockMark = "X"
)

const (
	// DefaultLowStockThreshold applies when a product has no
	// low_stock_amount of its own.
	DefaultLowStockThreshold = 5
	// lowStockLimit caps how many entries are surfaced downstream.
	lowStockLimit = 5
)

// StockEntry is one line of the inventory summary.
type StockEntry struct {
	Name    string `json:"name"`
	InStock string `json:"instock"`
	Stock   int    `json:"stock"`
}

// VariationLister resolves the variation collection of a variable
// product. Satisfied by *woocommerce.Client.
type VariationLister interface {
	Variations(productID int64) ([]woocommerce.Variation, error)
}

// BuildStockOverview reduces the active-product collection to stock
// summary entries, sorted by stock descending. Ties keep fetch order.
//
// Simple products report their own quantity and stock status. Variable
// products are resolved through their variations: stock is the sum of
// variation quantities and the product is in stock if any variation is.
// Products of other types carry no stock of their own and are skipped.
func BuildStockOverview(products []woocommerce.Product, variations VariationLister) ([]StockEntry, error) {
	overview := []StockEntry{}

	for _, product := range products {
		if product.Status != woocommerce.ProductStatusPublish {
			continue
		}

		switch product.Type {
		case woocommerce.ProductTypeSimple:
			overview = append(overview, StockEntry{
				Name:    product.Name,
				InStock: stockMark(product.StockStatus == woocommerce.StockStatusInStock),
				Stock:   clampStock(product.StockQuantity),
			})

		case woocommerce.ProductTypeVariable:
			variants, err := variations.Variations(product.ID)
			if err != nil {
				return nil, err
			}

			total := 0
			inStock := false
			for _, v := range variants {
				if v.StockQuantity != nil {
					total += *v.StockQuantity
				}
				if v.StockStatus == woocommerce.StockStatusInStock {
					inStock = true
				}
			}
			if total < 0 {
				total = 0
			}

			overview = append(overview, StockEntry{
				Name:    product.Name,
				InStock: stockMark(inStock),
				Stock:   total,
			})
		}
	}

	sort.SliceStable(overview, func(i, j int) bool {
		return overview[i].Stock > overview[j].Stock
	})
	return overview, nil
}

// LowStockEntry is one product flagged for restocking.
type LowStockEntry struct {
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}

type LowStockReport struct {
	Items []LowStockEntry
	Total int
}

// BuildLowStock flags active, stock-managed, in-stock products whose
// quantity is at or below their low-stock threshold. A product exactly
// at its threshold is flagged. Results are sorted by stock ascending
// and capped at the lowest five; Total counts all flagged products.
func BuildLowStock(products []woocommerce.Product) LowStockReport {
	var flagged []LowStockEntry

	for _, product := range products {
		if product.Status != woocommerce.ProductStatusPublish {
			continue
		}
		if !product.ManageStock || product.StockStatus != woocommerce.StockStatusInStock {
			continue
		}
		if product.StockQuantity == nil {
			continue
		}

		threshold := DefaultLowStockThreshold
		if product.LowStockAmount != nil && *product.LowStockAmount > 0 {
			threshold = *product.LowStockAmount
		}

		if *product.StockQuantity <= threshold {
			flagged = append(flagged, LowStockEntry{
				Name:      product.Name,
				Stock:     *product.StockQuantity,
				Threshold: threshold,
			})
		}
	}

	sort.SliceStable(flagged, func(i, j int) bool {
		return flagged[i].Stock < flagged[j].Stock
	})

	total := len(flagged)
	if len(flagged) > lowStockLimit {
		flagged = flagged[:lowStockLimit]
	}
	return LowStockReport{Items: flagged, Total: total}
}

func stockMark(inStock bool) string {
	if inStock {
		return inStockMark
	}
	return outOfStockMark
}

func clampStock(quantity *int) int {
	if quantity == nil || *quantity < 0 {
		return 0
	}
	return *quantity
}
