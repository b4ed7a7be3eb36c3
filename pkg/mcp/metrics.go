package mcp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

var (
	toolCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openapi_mcp_tool_calls_total",
		Help: "Total number of tool calls, partitioned by tool name and outcome.",
	}, []string{"tool", "outcome"})

	toolCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "openapi_mcp_tool_call_duration_seconds",
		Help:    "Duration of tool calls, including the upstream HTTP request.",
		Buckets: prometheus.DefBuckets,
	}, []string{"tool"})
)

func observeToolCall(tool, outcome string) {
	toolCallsTotal.WithLabelValues(tool, outcome).Inc()
}

func startToolTimer(tool string) *prometheus.Timer {
	return prometheus.NewTimer(toolCallDuration.WithLabelValues(tool))
}
