package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"bizsuite/internal/entity"
)

type stubLister struct {
	products  []entity.DbProduct
	threshold int
}

func (s *stubLister) ListLowStockProducts(_ context.Context, threshold int) ([]entity.DbProduct, error) {
	s.threshold = threshold
	return s.products, nil
}

type captureMailer struct {
	Mailer
	mu     sync.Mutex
	alerts map[string][]entity.DbProduct
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{
		Mailer: NewDisabledMailer("unused"),
		alerts: make(map[string][]entity.DbProduct),
	}
}

func (m *captureMailer) SendLowStockAlert(_ context.Context, to string, products []entity.DbProduct) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts[to] = append(m.alerts[to], products...)
	return nil
}

func supplierProduct(id uint, name string, qty int, supplierEmail string) entity.DbProduct {
	p := entity.DbProduct{ID: id, Name: name, Quantity: qty}
	if supplierEmail != "" {
		p.Supplier = &entity.DbSupplier{Email: supplierEmail}
	}
	return p
}

func TestScanOnceGroupsBySupplier(t *testing.T) {
	lister := &stubLister{products: []entity.DbProduct{
		supplierProduct(1, "Denim Jacket", 2, "north@supplier.test"),
		supplierProduct(2, "Wool Scarf", 5, "north@supplier.test"),
		supplierProduct(3, "Leather Belt", 1, "south@supplier.test"),
		supplierProduct(4, "Orphan Item", 0, ""),
	}}
	mailer := newCaptureMailer()

	w := NewStockWatcher(lister, mailer, 10, time.Hour)
	w.ScanOnce(context.Background())

	if lister.threshold != 10 {
		t.Errorf("threshold passed = %d, want 10", lister.threshold)
	}
	if len(mailer.alerts["north@supplier.test"]) != 2 {
		t.Errorf("north supplier alerts = %d, want 2", len(mailer.alerts["north@supplier.test"]))
	}
	if len(mailer.alerts["south@supplier.test"]) != 1 {
		t.Errorf("south supplier alerts = %d, want 1", len(mailer.alerts["south@supplier.test"]))
	}
	if len(mailer.alerts) != 2 {
		t.Errorf("suppliers alerted = %d, want 2", len(mailer.alerts))
	}
}

func TestScanOnceNoProducts(t *testing.T) {
	mailer := newCaptureMailer()
	w := NewStockWatcher(&stubLister{}, mailer, 10, time.Hour)
	w.ScanOnce(context.Background())
	if len(mailer.alerts) != 0 {
		t.Errorf("expected no alerts, got %d", len(mailer.alerts))
	}
}

func TestNewStockWatcherDefaultThreshold(t *testing.T) {
	lister := &stubLister{}
	w := NewStockWatcher(lister, nil, 0, time.Hour)
	w.ScanOnce(context.Background())
	if lister.threshold != 10 {
		t.Errorf("default threshold = %d, want 10", lister.threshold)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := NewStockWatcher(&stubLister{}, nil, 10, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
