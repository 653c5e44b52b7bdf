package common

import "github.com/prometheus/client_golang/prometheus"

// PromCollectors returns every collector declared in this package.
func PromCollectors() []prometheus.Collector {
	cs := make([]prometheus.Collector, 0, len(PromCounters)+len(PromHistograms))
	for _, c := range PromCounters {
		cs = append(cs, c)
	}
	for _, h := range PromHistograms {
		cs = append(cs, h)
	}
	return cs
}
