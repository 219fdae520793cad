// Package metrics records run counters with Prometheus and writes them in
// the text exposition format for node_exporter's textfile collector.
package metrics

import (
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nao1215/emailscout/internal/model"
)

// Metrics holds the run counters on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	companies     *prometheus.CounterVec
	searchQueries *prometheus.CounterVec
	rateLimited   prometheus.Counter
	pagesFetched  *prometheus.CounterVec
	deniedURLs    prometheus.Counter
	emailsFound   *prometheus.CounterVec
}

// New creates a Metrics with all counters registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		companies: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "emailscout_companies_processed_total",
			Help: "The total number of input lines processed, by outcome.",
		}, []string{"outcome"}),
		searchQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "emailscout_search_queries_total",
			Help: "The total number of search provider calls, by provider and result.",
		}, []string{"provider", "result"}),
		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "emailscout_search_rate_limit_hits_total",
			Help: "The total number of times a search provider rate limited the client.",
		}),
		pagesFetched: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "emailscout_pages_fetched_total",
			Help: "The total number of candidate pages fetched, by result.",
		}, []string{"result"}),
		deniedURLs: factory.NewCounter(prometheus.CounterOpts{
			Name: "emailscout_denied_urls_total",
			Help: "The total number of result URLs skipped by the social-network denylist.",
		}),
		emailsFound: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "emailscout_emails_found_total",
			Help: "The total number of companies resolved to an address, by phase and source.",
		}, []string{"phase", "source"}),
	}
}

// Registry returns the registry the counters are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// CompanyProcessed counts one processed input line by its ledger status.
func (m *Metrics) CompanyProcessed(status string) {
	if m == nil {
		return
	}
	m.companies.WithLabelValues(outcome(status)).Inc()
}

// SearchQuery counts one provider call.
func (m *Metrics) SearchQuery(provider string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.searchQueries.WithLabelValues(provider, result).Inc()
}

// RateLimited counts one rate-limit response.
func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// PageFetched counts one page fetch attempt.
func (m *Metrics) PageFetched(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.pagesFetched.WithLabelValues(result).Inc()
}

// DeniedURL counts one URL skipped by the denylist.
func (m *Metrics) DeniedURL() {
	if m == nil {
		return
	}
	m.deniedURLs.Inc()
}

// EmailFound counts one resolved company.
func (m *Metrics) EmailFound(phase, source string) {
	if m == nil {
		return
	}
	m.emailsFound.WithLabelValues(phase, source).Inc()
}

// WriteToTextfile writes all counters to path atomically.
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil {
		return errors.New("metrics are not enabled")
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// outcome maps a ledger status to a bounded label value.
func outcome(status string) string {
	switch {
	case status == model.StatusEmailFound:
		return "found"
	case status == model.StatusEmailNotFound:
		return "not_found"
	case status == model.StatusInvalidName:
		return "invalid_name"
	case status == model.StatusEmptyLine:
		return "empty_line"
	case status == model.StatusAlreadyProcessed:
		return "already_processed"
	case strings.HasPrefix(status, model.SearchErrorStatus(errors.New(""))):
		return "search_error"
	case strings.HasPrefix(status, model.CriticalErrorStatus("")):
		return "critical_error"
	default:
		return "other"
	}
}
