// Package metrics defines Prometheus metrics for the contact pipeline:
// submissions, throttling decisions, and mail delivery outcomes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ContactSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cipnetwork_contact_submissions_total",
		Help: "Total number of contact submissions by gateway outcome",
	}, []string{"outcome"})
	RateLimitRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cipnetwork_rate_limit_rejections_total",
		Help: "Total number of requests rejected by a rate limiter",
	}, []string{"limiter"})
	RateLimitBackendErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cipnetwork_rate_limit_backend_errors_total",
		Help: "Total number of limiter backend errors (requests were allowed)",
	}, []string{"limiter"})

	// Mail metrics
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cipnetwork_mail_send_success_total",
		Help: "Total number of successful mail sends",
	}, []string{"host"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cipnetwork_mail_send_failure_total",
		Help: "Total number of failed mail sends by failure reason",
	}, []string{"host", "reason"})
	MailSendDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cipnetwork_mail_send_duration_seconds",
		Help:    "Duration of SMTP delivery attempts",
		Buckets: prometheus.DefBuckets,
	}, []string{"host"})
)

func init() {
	prometheus.MustRegister(ContactSubmissions)
	prometheus.MustRegister(RateLimitRejections)
	prometheus.MustRegister(RateLimitBackendErrors)
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
	prometheus.MustRegister(MailSendDuration)
}

// MetricsHandler returns an http.Handler exposing Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
