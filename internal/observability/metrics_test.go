package observability

import (
	"testing"
	"time"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/symposiums", "GET", 200, 2*time.Millisecond)
	m.RecordRequest("/symposiums", "GET", 200, 4*time.Millisecond)
	m.RecordError("/events/:id/registration", "POST", "NOT_ELIGIBLE")
	m.RecordDomainEvent("registration.requested")

	snap := m.Snapshot()
	if len(snap.Requests) != 1 || snap.Requests[0].Count != 2 {
		t.Fatalf("unexpected requests: %+v", snap.Requests)
	}
	if snap.Requests[0].AvgLatencyMS != 3 {
		t.Fatalf("avg latency = %v", snap.Requests[0].AvgLatencyMS)
	}
	if len(snap.Errors) != 1 || snap.Errors[0].Key != "/events/:id/registration|POST|NOT_ELIGIBLE" {
		t.Fatalf("unexpected errors: %+v", snap.Errors)
	}
	if snap.DomainEvents["registration.requested"] != 1 {
		t.Fatalf("unexpected domain events: %+v", snap.DomainEvents)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordDomainEvent("x")
	if snap := m.Snapshot(); len(snap.Requests) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}
