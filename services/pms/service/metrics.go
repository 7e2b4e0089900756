package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	connectOutcomeConnected   = "connected"
	connectOutcomeInvalid     = "invalid"
	connectOutcomeUnsupported = "unsupported"
	connectOutcomeTestFailed  = "test_failed"
	connectOutcomeError       = "error"
)

var connectTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pms_connect_total",
	Help: "PMS connect attempts, by provider and outcome.",
}, []string{"provider", "outcome"})
