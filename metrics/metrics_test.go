package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/appointments/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/appointments/:id", "200"))
	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/appointments/"+id, nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/appointments/:id", "200"))
	assert.Equal(t, 2.0, after-before)

	unmatched := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, unmatched+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(httpInFlight))
}

func TestRecordCounters(t *testing.T) {
	before := testutil.ToFloat64(bookings.WithLabelValues("Cover-up"))
	RecordBooking("Cover-up")
	assert.Equal(t, before+1, testutil.ToFloat64(bookings.WithLabelValues("Cover-up")))

	before = testutil.ToFloat64(reminders.WithLabelValues("day_before", "failed"))
	RecordReminder("day_before", "failed")
	assert.Equal(t, before+1, testutil.ToFloat64(reminders.WithLabelValues("day_before", "failed")))
}

func TestHandler(t *testing.T) {
	RecordBooking("Tatuagem Autoral")
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "inkstudio_ledger_bookings_total"))
	assert.Contains(t, body, "go_goroutines")
}
