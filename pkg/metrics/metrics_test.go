package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(MailSendFailure.WithLabelValues("smtp.test", "auth"))
	MailSendFailure.WithLabelValues("smtp.test", "auth").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(MailSendFailure.WithLabelValues("smtp.test", "auth")))

	before = testutil.ToFloat64(ContactSubmissions.WithLabelValues("accepted"))
	ContactSubmissions.WithLabelValues("accepted").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ContactSubmissions.WithLabelValues("accepted")))
}

func TestMetricsHandlerExposesRegisteredMetrics(t *testing.T) {
	RateLimitRejections.WithLabelValues("contact").Inc()

	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cipnetwork_rate_limit_rejections_total")
}
