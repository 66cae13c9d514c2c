package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetGauge().GetValue()
}

func TestCollector_SetLIDOccupancy(t *testing.T) {
	c := NewCollector()
	c.SetLIDOccupancy(10, 5)
	if got := gaugeValue(t, c.freeLIDs); got != 10 {
		t.Errorf("freeLIDs = %v, want 10", got)
	}
	if got := gaugeValue(t, c.usedLIDs); got != 5 {
		t.Errorf("usedLIDs = %v, want 5", got)
	}
}

func TestCollector_ObservePortInfoSet(t *testing.T) {
	c := NewCollector()
	c.ObservePortInfoSet("fresh-allocation", "ok")
	c.ObservePortInfoSet("fresh-allocation", "ok")

	m := &dto.Metric{}
	cnt, err := c.portInfoSets.GetMetricWithLabelValues("fresh-allocation", "ok")
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues: %v", err)
	}
	if err := cnt.Write(m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := m.GetCounter().GetValue(); got != 2 {
		t.Errorf("count = %v, want 2", got)
	}
}

func TestCollector_RegistersCleanly(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(NewCollector()); err != nil {
		t.Fatalf("Register: %v", err)
	}
}

func TestCollector_ObserveSweepDuration(t *testing.T) {
	c := NewCollector()
	c.ObserveSweepDuration("subnet", 50*time.Millisecond)
	c.IncLIDsExhausted()
}
