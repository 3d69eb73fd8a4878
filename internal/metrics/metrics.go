// Package metrics holds the domain counters exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dossierdb",
		Name:      "logins_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	Lockouts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dossierdb",
		Name:      "lockouts_total",
		Help:      "Users blocked after too many failed logins.",
	})

	Writes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dossierdb",
		Name:      "record_writes_total",
		Help:      "Dispatcher writes by entity kind and operation.",
	}, []string{"kind", "op"})

	Imports = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dossierdb",
		Name:      "questionnaire_imports_total",
		Help:      "Questionnaire imports by outcome.",
	}, []string{"outcome"})

	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dossierdb",
		Name:      "uploads_total",
		Help:      "Uploaded files by kind.",
	}, []string{"kind"})
)
