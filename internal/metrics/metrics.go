// Package metrics holds the domain-level Prometheus counters. HTTP-level
// metrics live in the middleware; these track ledger events regardless of
// which transport triggered them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DonationsTotal counts donation state transitions by outcome.
	DonationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "givetrack_donations_total",
		Help: "Donation state transitions by outcome (created, confirmed, failed, refunded).",
	}, []string{"outcome"})

	// MilestoneReviewsTotal counts milestone review decisions.
	MilestoneReviewsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "givetrack_milestone_reviews_total",
		Help: "Milestone review decisions (approved, rejected).",
	}, []string{"decision"})

	// DocumentsStoredTotal counts evidence uploads by backend mode.
	DocumentsStoredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "givetrack_documents_stored_total",
		Help: "Evidence documents stored by backend mode (ipfs, degraded-local).",
	}, []string{"mode"})
)
