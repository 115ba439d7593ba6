package question

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	validationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "question_csv_validations_total",
		Help: "CSV validation runs by outcome.",
	}, []string{"outcome"})

	importRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "question_import_rows_total",
		Help: "Imported CSV rows by result.",
	}, []string{"result"})

	exportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "question_exports_total",
		Help: "Question bank CSV exports.",
	})

	listCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "question_list_cache_total",
		Help: "Question list cache lookups by result.",
	}, []string{"result"})
)
