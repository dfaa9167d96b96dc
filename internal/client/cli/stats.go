package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	dto "github.com/prometheus/client_model/go"
)

// Stats prints the client's request and session counters.
func (a *App) Stats(ctx context.Context) error {
	families, err := a.gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	if len(families) == 0 {
		printlnFn("No requests sent yet")
		return nil
	}

	lines := make([]string, 0)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			lines = append(lines, formatMetric(mf.GetName(), m))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		printlnFn(l)
	}
	return nil
}

func formatMetric(name string, m *dto.Metric) string {
	labels := make([]string, 0, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
	}
	if len(labels) > 0 {
		name = name + "{" + strings.Join(labels, ",") + "}"
	}

	switch {
	case m.Counter != nil:
		return fmt.Sprintf("%s %g", name, m.GetCounter().GetValue())
	case m.Histogram != nil:
		h := m.GetHistogram()
		return fmt.Sprintf("%s count=%d sum=%.3fs", name, h.GetSampleCount(), h.GetSampleSum())
	case m.Gauge != nil:
		return fmt.Sprintf("%s %g", name, m.GetGauge().GetValue())
	default:
		return name
	}
}
