package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	WinnerSelectedTotal        = "winner_selected_total"
	RewardTransferFailure      = "reward_transfer_failure"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "code"}),
		WinnerSelectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: WinnerSelectedTotal,
			Help: "Count of participants selected as winner",
		}, []string{"method"}),
		RewardTransferFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: RewardTransferFailure,
			Help: "Count of all failed reward transfers",
		}, []string{"reward_type"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path"}),
	}
)

func PromCollectors() []prometheus.Collector {
	collectors := []prometheus.Collector{}
	for _, c := range PromCounters {
		collectors = append(collectors, c)
	}

	for _, h := range PromHistograms {
		collectors = append(collectors, h)
	}

	return collectors
}
