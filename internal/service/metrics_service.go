package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the booking
// API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	bookingsCreated *prometheus.CounterVec
	bookingsDeleted prometheus.Counter
	rejections      *prometheus.CounterVec
	feedDuration    prometheus.Histogram
	feedEvents      prometheus.Gauge
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	bookingsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Bookings accepted and stored, by derived kind",
	}, []string{"kind"})

	bookingsDeleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookings_deleted_total",
		Help: "Bookings removed",
	})

	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_rejections_total",
		Help: "Booking requests rejected, by reason code",
	}, []string{"reason"})

	feedDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "feed_generation_seconds",
		Help:    "Time spent generating the iCalendar feed",
		Buckets: prometheus.DefBuckets,
	})

	feedEvents := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "feed_events",
		Help: "Number of bookings published in the last generated feed",
	})

	registry.MustRegister(requestDuration, requestTotal, bookingsCreated, bookingsDeleted, rejections, feedDuration, feedEvents)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		bookingsCreated: bookingsCreated,
		bookingsDeleted: bookingsDeleted,
		rejections:      rejections,
		feedDuration:    feedDuration,
		feedEvents:      feedEvents,
	}
}

// Handler exposes the registry for the /metrics endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records a served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, fmt.Sprintf("%d", status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// CountBookingCreated increments the accepted-booking counter.
func (s *MetricsService) CountBookingCreated(kind string) {
	s.bookingsCreated.WithLabelValues(kind).Inc()
}

// CountBookingDeleted increments the deleted-booking counter.
func (s *MetricsService) CountBookingDeleted() {
	s.bookingsDeleted.Inc()
}

// CountBookingRejected increments the rejection counter for a reason code.
func (s *MetricsService) CountBookingRejected(reason string) {
	s.rejections.WithLabelValues(reason).Inc()
}

// ObserveFeedGeneration records one feed build.
func (s *MetricsService) ObserveFeedGeneration(duration time.Duration, events int) {
	s.feedDuration.Observe(duration.Seconds())
	s.feedEvents.Set(float64(events))
}
