package observability

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/cipherbay/market/purchase"
)

type fakeCounter struct{ value float64 }

func (c *fakeCounter) Inc()          { c.value++ }
func (c *fakeCounter) Add(v float64) { c.value += v }

type fakeHistogram struct{ observations []float64 }

func (h *fakeHistogram) Observe(v float64) { h.observations = append(h.observations, v) }

type fakeGauge struct{ value float64 }

func (g *fakeGauge) Set(v float64) { g.value = v }

type fakeFactory struct{}

func (fakeFactory) Counter(string) Counter     { return &fakeCounter{} }
func (fakeFactory) Histogram(string) Histogram { return &fakeHistogram{} }
func (fakeFactory) Gauge(string) Gauge         { return &fakeGauge{} }

func TestPurchaseMetrics(t *testing.T) {
	ext := NewMetricsExtension(fakeFactory{})

	receipt := &purchase.Receipt{
		ListingID:     1,
		Buyer:         "bob",
		Seller:        "alice",
		Price:         1000,
		SellerPayment: 980,
		PlatformFee:   20,
		FeePercent:    2,
	}
	if err := ext.OnPurchaseCompleted(context.Background(), receipt); err != nil {
		t.Fatal(err)
	}
	if err := ext.OnPurchaseCompleted(context.Background(), receipt); err != nil {
		t.Fatal(err)
	}

	if got := ext.PurchasesCompleted.(*fakeCounter).value; got != 2 {
		t.Errorf("purchases completed: got %v, want 2", got)
	}
	if got := ext.SettlementVolume.(*fakeCounter).value; got != 2000 {
		t.Errorf("settlement volume: got %v, want 2000", got)
	}
	if got := ext.FeeRevenue.(*fakeCounter).value; got != 40 {
		t.Errorf("fee revenue: got %v, want 40", got)
	}
	obs := ext.PurchaseAmount.(*fakeHistogram).observations
	if len(obs) != 2 || obs[0] != 1000 {
		t.Errorf("purchase amount observations: %v", obs)
	}
}

func TestFeeUpdateSetsGauge(t *testing.T) {
	ext := NewMetricsExtension(fakeFactory{})

	if err := ext.OnFeeUpdated(context.Background(), 2, 5); err != nil {
		t.Fatal(err)
	}
	if got := ext.CurrentFeeRate.(*fakeGauge).value; got != 5 {
		t.Errorf("fee gauge: got %v, want 5", got)
	}
	if got := ext.FeeUpdates.(*fakeCounter).value; got != 1 {
		t.Errorf("fee updates: got %v, want 1", got)
	}
}

func TestListingMetrics(t *testing.T) {
	ext := NewMetricsExtension(fakeFactory{})

	_ = ext.OnListingCreated(context.Background(), nil)
	_ = ext.OnListingCreated(context.Background(), nil)
	_ = ext.OnListingDeactivated(context.Background(), 1)
	_ = ext.OnCredentialReleased(context.Background(), "bob", 1)

	if got := ext.ListingsCreated.(*fakeCounter).value; got != 2 {
		t.Errorf("listings created: got %v, want 2", got)
	}
	if got := ext.ListingsDeactivated.(*fakeCounter).value; got != 1 {
		t.Errorf("listings deactivated: got %v, want 1", got)
	}
	if got := ext.CredentialsReleased.(*fakeCounter).value; got != 1 {
		t.Errorf("credentials released: got %v, want 1", got)
	}
}

func TestPrometheusFactoryRegistersMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	ext := NewMetricsExtension(NewPrometheusFactory(reg))

	_ = ext.OnListingCreated(context.Background(), nil)
	_ = ext.OnListingCreated(context.Background(), nil)

	c, ok := ext.ListingsCreated.(prometheus.Counter)
	if !ok {
		t.Fatalf("factory did not return a prometheus counter: %T", ext.ListingsCreated)
	}
	if got := testutil.ToFloat64(c); got != 2 {
		t.Errorf("prometheus counter: got %v, want 2", got)
	}
}
