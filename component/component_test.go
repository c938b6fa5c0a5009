package component

import (
	"context"
	"errors"
	"testing"
)

// fakeComponent implements Component and Describable for testing.
type fakeComponent struct {
	name     string
	startErr error
	stopErr  error
	health   Health
	events   *[]string
	desc     *Description
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(_ context.Context) error {
	if f.events != nil {
		*f.events = append(*f.events, "start:"+f.name)
	}
	return f.startErr
}

func (f *fakeComponent) Stop(_ context.Context) error {
	if f.events != nil {
		*f.events = append(*f.events, "stop:"+f.name)
	}
	return f.stopErr
}

func (f *fakeComponent) Health(_ context.Context) Health { return f.health }

type describedComponent struct {
	*fakeComponent
}

func (d describedComponent) Describe() Description { return *d.desc }

func TestRegister_Duplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakeComponent{name: "billing"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&fakeComponent{name: "billing"}); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&fakeComponent{name: "billing"})

	if got := r.Get("billing"); got == nil || got.Name() != "billing" {
		t.Errorf("expected billing component, got %v", got)
	}
	if got := r.Get("missing"); got != nil {
		t.Error("expected nil for unregistered component")
	}
	if n := len(r.All()); n != 1 {
		t.Errorf("expected 1 component, got %d", n)
	}
}

func TestStartStop_Order(t *testing.T) {
	r := NewRegistry()
	var events []string
	for _, name := range []string{"tracer", "meter", "billing"} {
		_ = r.Register(&fakeComponent{name: name, events: &events})
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	want := []string{
		"start:tracer", "start:meter", "start:billing",
		"stop:billing", "stop:meter", "stop:tracer",
	}
	if len(events) != len(want) {
		t.Fatalf("expected %v, got %v", want, events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], events[i])
		}
	}
}

func TestStartAll_RollsBackOnError(t *testing.T) {
	r := NewRegistry()
	var events []string
	boom := errors.New("token endpoint unreachable")
	_ = r.Register(&fakeComponent{name: "telemetry", events: &events})
	_ = r.Register(&fakeComponent{name: "billing", startErr: boom, events: &events})
	_ = r.Register(&fakeComponent{name: "crm", events: &events})

	err := r.StartAll(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped start error, got %v", err)
	}
	want := []string{"start:telemetry", "start:billing", "stop:telemetry"}
	if len(events) != len(want) {
		t.Fatalf("expected events %v, got %v", want, events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], events[i])
		}
	}

	// The rollback already stopped everything.
	events = events[:0]
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no stops, got %v", events)
	}
}

func TestStartAll_RollbackErrorsJoined(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	stuck := errors.New("stuck")
	_ = r.Register(&fakeComponent{name: "a", stopErr: stuck})
	_ = r.Register(&fakeComponent{name: "b", startErr: boom})

	err := r.StartAll(context.Background())
	if !errors.Is(err, boom) || !errors.Is(err, stuck) {
		t.Errorf("expected start and rollback errors, got %v", err)
	}
}

func TestStopAll_JoinsErrors(t *testing.T) {
	r := NewRegistry()
	first := errors.New("first")
	second := errors.New("second")
	_ = r.Register(&fakeComponent{name: "a", stopErr: first})
	_ = r.Register(&fakeComponent{name: "b", stopErr: second})
	_ = r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Errorf("expected both stop errors, got %v", err)
	}
}

func TestHealthAll(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&fakeComponent{name: "billing", health: Health{Name: "billing", Status: StatusHealthy}})
	_ = r.Register(&fakeComponent{name: "crm", health: Health{Name: "crm", Status: StatusUnhealthy, Message: "not started"}})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != StatusHealthy {
		t.Errorf("expected billing healthy, got %s", results[0].Status)
	}
	if results[1].Status != StatusUnhealthy || results[1].Message != "not started" {
		t.Errorf("unexpected crm health: %+v", results[1])
	}
}

func TestDescribe(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(describedComponent{&fakeComponent{
		name: "billing",
		desc: &Description{Type: "connector", Details: "https://api.example.com"},
	}})
	_ = r.Register(&fakeComponent{name: "plain"})

	descs := r.Describe()
	if len(descs) != 1 {
		t.Fatalf("expected 1 description, got %d", len(descs))
	}
	if descs[0].Name != "billing" {
		t.Errorf("expected name to default to component name, got %q", descs[0].Name)
	}
	if descs[0].Type != "connector" {
		t.Errorf("expected type connector, got %q", descs[0].Type)
	}
}

func TestWorse(t *testing.T) {
	tests := []struct {
		a, b, want HealthStatus
	}{
		{StatusHealthy, StatusHealthy, StatusHealthy},
		{StatusHealthy, StatusDegraded, StatusDegraded},
		{StatusUnhealthy, StatusDegraded, StatusUnhealthy},
		{StatusDegraded, StatusUnhealthy, StatusUnhealthy},
		{StatusHealthy, HealthStatus("unknown"), HealthStatus("unknown")},
	}
	for _, tt := range tests {
		if got := Worse(tt.a, tt.b); got != tt.want {
			t.Errorf("Worse(%s, %s): expected %s, got %s", tt.a, tt.b, tt.want, got)
		}
	}
	if !(Health{Status: StatusHealthy}).Healthy() || (Health{Status: StatusDegraded}).Healthy() {
		t.Error("unexpected Healthy result")
	}
}
