package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taskrbac"

// Metrics holds the domain counters. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	permissionRequests *prometheus.CounterVec
	taskOperations     *prometheus.CounterVec
	membershipChanges  *prometheus.CounterVec
	notifyFailures     prometheus.Counter
	directoryLookups   *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		permissionRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "permission_requests_total",
			Help:      "Permission request transitions by type and resulting status.",
		}, []string{"request_type", "status"}),
		taskOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_operations_total",
			Help:      "Task state operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		membershipChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "membership_changes_total",
			Help:      "Membership change log entries by target type and change type.",
		}, []string{"target_type", "change_type"}),
		notifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notify_failures_total",
			Help:      "Domain events that could not be published.",
		}),
		directoryLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "directory_lookups_total",
			Help:      "Identity directory lookups by cache result.",
		}, []string{"result"}),
	}

	registry.MustRegister(
		m.permissionRequests,
		m.taskOperations,
		m.membershipChanges,
		m.notifyFailures,
		m.directoryLookups,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) PermissionRequest(requestType, status string) {
	if m == nil {
		return
	}
	m.permissionRequests.WithLabelValues(requestType, status).Inc()
}

func (m *Metrics) TaskOperation(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.taskOperations.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) MembershipChange(targetType, changeType string) {
	if m == nil {
		return
	}
	m.membershipChanges.WithLabelValues(targetType, changeType).Inc()
}

func (m *Metrics) NotifyFailure() {
	if m == nil {
		return
	}
	m.notifyFailures.Inc()
}

// DirectoryLookup records a cache hit or miss.
func (m *Metrics) DirectoryLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.directoryLookups.WithLabelValues(result).Inc()
}
