package events

import "time"

// EventType identifies the kind of event being published.
type EventType string

const (
	// Ingest-rule events
	Overspeed     EventType = "overspeed"
	GPSSignalLost EventType = "gps_signal_lost"
	BusOnline     EventType = "bus_online"

	// Operational events
	MissedStop  EventType = "missed_stop"
	LateArrival EventType = "late_arrival"
	LongStop    EventType = "long_stop"
)

// Severity indicates the urgency of an event.
type Severity int

const (
	SeverityInfo     Severity = 0
	SeverityWarning  Severity = 1
	SeverityCritical Severity = 2
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Event is the payload published through the bus.
type Event struct {
	Type        EventType         `json:"type"`
	Severity    Severity          `json:"severity"`
	BusID       int64             `json:"bus_id,omitempty"`
	PlateNumber string            `json:"plate_number,omitempty"`
	Message     string            `json:"message"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}
