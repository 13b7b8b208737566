// Package events provides an event system for scenario and fault notifications.
package events

import (
	"time"

	"faultdemo/internal/fault"
)

// EventType represents the type of event
type EventType string

const (
	// EventScenarioStart is emitted before a scenario runs
	EventScenarioStart EventType = "scenario_start"
	// EventScenarioDone is emitted after a scenario and all its cleanups finished
	EventScenarioDone EventType = "scenario_done"
	// EventFaultRaised is emitted when a guarded region observes a fault
	EventFaultRaised EventType = "fault_raised"
	// EventFaultHandled is emitted when a handler accepts a fault
	EventFaultHandled EventType = "fault_handled"
	// EventCleanup is emitted when a cleanup block has run
	EventCleanup EventType = "cleanup"
	// EventFaultEscaped is emitted when a fault leaves a scenario unhandled
	EventFaultEscaped EventType = "fault_escaped"
)

// Event represents a scenario or fault event
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Scenario  string    `json:"scenario"`
	Data      EventData `json:"data,omitempty"`
}

// EventData contains event-specific data
type EventData struct {
	Kind     string `json:"kind,omitempty"`
	Message  string `json:"message,omitempty"`
	Duration string `json:"duration,omitempty"`
	Escaped  bool   `json:"escaped,omitempty"`
}

// NewScenarioStartEvent creates a scenario start event
func NewScenarioStartEvent(scenario string) Event {
	return Event{
		Type:      EventScenarioStart,
		Timestamp: time.Now(),
		Scenario:  scenario,
	}
}

// NewScenarioDoneEvent creates a scenario completion event
func NewScenarioDoneEvent(scenario string, elapsed time.Duration, escaped bool) Event {
	return Event{
		Type:      EventScenarioDone,
		Timestamp: time.Now(),
		Scenario:  scenario,
		Data: EventData{
			Duration: elapsed.String(),
			Escaped:  escaped,
		},
	}
}

// NewFaultEvent creates a fault event of the given type
func NewFaultEvent(eventType EventType, scenario string, err error) Event {
	data := EventData{}
	if err != nil {
		data.Kind = fault.KindOf(err).String()
		data.Message = err.Error()
	}
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Scenario:  scenario,
		Data:      data,
	}
}

// NewCleanupEvent creates a cleanup event
func NewCleanupEvent(scenario string) Event {
	return Event{
		Type:      EventCleanup,
		Timestamp: time.Now(),
		Scenario:  scenario,
	}
}
