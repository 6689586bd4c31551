package notify

import (
	"context"
	"time"

	"bizsuite/internal/entity"

	"github.com/sirupsen/logrus"
)

// LowStockLister is the slice of the repository the watcher needs.
type LowStockLister interface {
	ListLowStockProducts(ctx context.Context, threshold int) ([]entity.DbProduct, error)
}

// StockWatcher periodically scans inventory and alerts suppliers whose
// products have fallen to or below the threshold.
type StockWatcher struct {
	repo      LowStockLister
	mailer    Mailer
	threshold int
	interval  time.Duration
}

// NewStockWatcher assembles a watcher. A non-positive interval disables Run.
func NewStockWatcher(repo LowStockLister, mailer Mailer, threshold int, interval time.Duration) *StockWatcher {
	if threshold <= 0 {
		threshold = 10
	}
	return &StockWatcher{
		repo:      repo,
		mailer:    mailer,
		threshold: threshold,
		interval:  interval,
	}
}

// Run scans on a ticker until the context is cancelled. Call in a goroutine.
func (w *StockWatcher) Run(ctx context.Context) {
	if w == nil || w.interval <= 0 {
		return
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.ScanOnce(ctx)
		}
	}
}

// ScanOnce runs a single low-stock pass, grouping products by supplier and
// sending one alert per supplier. Products without a supplier are only logged.
func (w *StockWatcher) ScanOnce(ctx context.Context) {
	if w == nil || w.repo == nil {
		return
	}
	products, err := w.repo.ListLowStockProducts(ctx, w.threshold)
	if err != nil {
		logrus.WithError(err).Error("low stock scan failed")
		return
	}
	if len(products) == 0 {
		return
	}

	bySupplier := make(map[string][]entity.DbProduct)
	for _, p := range products {
		if p.Supplier == nil || p.Supplier.Email == "" {
			logrus.WithFields(logrus.Fields{
				"product_id": p.ID,
				"quantity":   p.Quantity,
			}).Warn("low stock product has no supplier to notify")
			continue
		}
		bySupplier[p.Supplier.Email] = append(bySupplier[p.Supplier.Email], p)
	}

	if w.mailer == nil {
		return
	}
	for email, items := range bySupplier {
		if err := w.mailer.SendLowStockAlert(ctx, email, items); err != nil {
			logrus.WithError(err).WithField("supplier", email).Warn("failed to send low stock alert")
			continue
		}
		logrus.WithFields(logrus.Fields{
			"supplier": email,
			"products": len(items),
		}).Info("low stock alert sent")
	}
}
