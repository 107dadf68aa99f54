// Copyright © 2018 One Concern

package gitcmd

import (
	"time"

	"github.com/oneconcern/gitkv/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
	outcomeError   = "error"
)

// Metrics collects statistics about git invocations
type Metrics struct {
	commands *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the git invocation collectors and registers them.
//
// Collectors already registered by another runner are reused, so several stores may share one registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	commands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gitkv",
		Subsystem: "git",
		Name:      "commands_total",
		Help:      "Number of git invocations, by subcommand and outcome.",
	}, []string{"command", "outcome"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gitkv",
		Subsystem: "git",
		Name:      "command_duration_seconds",
		Help:      "Wall time of git invocations, by subcommand.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
	}, []string{"command"})

	m := &Metrics{commands: commands, duration: duration}
	if reg == nil {
		return m, nil
	}

	if err := reg.Register(commands); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
		m.commands = already.ExistingCollector.(*prometheus.CounterVec)
	}
	if err := reg.Register(duration); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
		m.duration = already.ExistingCollector.(*prometheus.HistogramVec)
	}
	return m, nil
}

func (m *Metrics) observe(command, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, outcome).Inc()
	m.duration.WithLabelValues(command).Observe(elapsed.Seconds())
}
