package metrics

import (
	"testing"
)

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	if reg == nil {
		t.Fatal("expected non-nil registry")
	}
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(mfs) == 0 {
		t.Error("expected some metrics to be registered")
	}
}

func gatherHas(t *testing.T, reg *Registry, name string) bool {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() == name {
			return true
		}
	}
	return false
}

func TestRegistry_RecordRequest(t *testing.T) {
	reg := NewRegistry()
	reg.RecordRequest("POST", "/api/v1/analyze", 200, 0.05)
	if !gatherHas(t, reg, "http_requests_total") {
		t.Error("expected http_requests_total metric")
	}
	if !gatherHas(t, reg, "http_request_duration_seconds") {
		t.Error("expected http_request_duration_seconds metric")
	}
}

func TestRegistry_RecordRequest_StatusCodes(t *testing.T) {
	tests := []struct {
		status   int
		expected string
	}{
		{200, "2xx"},
		{301, "3xx"},
		{404, "4xx"},
		{500, "5xx"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			reg := NewRegistry()
			reg.RecordRequest("GET", "/test", tt.status, 0.01)

			mfs, err := reg.Gather()
			if err != nil {
				t.Fatalf("gather failed: %v", err)
			}

			found := false
			for _, mf := range mfs {
				if mf.GetName() == "http_requests_total" {
					for _, m := range mf.GetMetric() {
						for _, label := range m.GetLabel() {
							if label.GetName() == "status" && label.GetValue() == tt.expected {
								found = true
							}
						}
					}
				}
			}
			if !found {
				t.Errorf("expected status label %s", tt.expected)
			}
		})
	}
}

func TestRegistry_BusinessMetrics(t *testing.T) {
	reg := NewRegistry()

	reg.RecordAnalysis("ok", 0.2)
	reg.RecordPurchases("Dollar-Cost Averaging (DCA)", 12)
	reg.RecordSkips("Buy the Dip", 1)
	reg.RecordProviderFetch("yahoo", "ok")
	reg.RecordInsight("error")

	for _, name := range []string{
		"dripline_analyses_total",
		"dripline_analysis_duration_seconds",
		"dripline_purchases_recorded_total",
		"dripline_points_skipped_total",
		"dripline_provider_fetches_total",
		"dripline_insight_completions_total",
	} {
		if !gatherHas(t, reg, name) {
			t.Errorf("expected %s metric", name)
		}
	}
}

func TestRegistry_RecordPurchases_ZeroCountNoop(t *testing.T) {
	reg := NewRegistry()
	reg.RecordPurchases("Buy the Dip", 0)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range mfs {
		if mf.GetName() == "dripline_purchases_recorded_total" {
			for _, m := range mf.GetMetric() {
				if m.GetCounter().GetValue() != 0 {
					t.Error("zero count should not increment")
				}
			}
		}
	}
}
