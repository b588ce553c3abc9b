// Package ingest consumes GPS fixes posted by bus agents, stores the
// latest position per bus, and raises alerts when a fix breaks a rule
// (overspeed) or a bus goes silent (GPS signal lost).
package ingest

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"slgps/internal/db"
	"slgps/internal/events"
	"slgps/internal/handlers"
	"slgps/internal/models"
)

// Fix is the wire format agents POST to /api/location/report.
type Fix struct {
	PlateNumber string    `json:"plate_number"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Speed       float64   `json:"speed"` // km/h
	Timestamp   time.Time `json:"timestamp"`
}

// Broadcaster pushes stored fixes to live dashboard clients.
type Broadcaster interface {
	BroadcastLocation(models.LiveLocation)
}

// Processor stores fixes and evaluates alert rules.
type Processor struct {
	DB     *sql.DB
	Bus    *events.Bus
	Config models.Config
	Stream Broadcaster // optional
}

// NewProcessor creates a processor wired to the given bus and database.
func NewProcessor(database *sql.DB, bus *events.Bus, config models.Config) *Processor {
	return &Processor{DB: database, Bus: bus, Config: config}
}

// HandleReport handles POST /api/location/report.
func (p *Processor) HandleReport(w http.ResponseWriter, r *http.Request) {
	var fix Fix
	if err := json.NewDecoder(r.Body).Decode(&fix); err != nil {
		handlers.JSONError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := p.Process(fix); err != nil {
		log.Printf("❌ Ingest error for %s: %v", fix.PlateNumber, err)
		handlers.JSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	handlers.JSONResponse(w, map[string]string{"status": "stored"})
}

// Process stores one fix and applies the alert rules. Unknown plates are
// rejected; agents only report for registered buses.
func (p *Processor) Process(fix Fix) error {
	bus, err := db.GetBusByPlate(p.DB, fix.PlateNumber)
	if err != nil {
		return err
	}
	if bus == nil {
		return fmt.Errorf("unknown bus %q", fix.PlateNumber)
	}

	at := fix.Timestamp
	if at.IsZero() {
		at = time.Now().UTC()
	}

	if err := db.UpsertLocation(p.DB, bus.ID, fix.Latitude, fix.Longitude, fix.Speed, at); err != nil {
		return err
	}

	if p.Stream != nil {
		p.Stream.BroadcastLocation(models.LiveLocation{
			BusID:       bus.ID,
			PlateNumber: bus.PlateNumber,
			Latitude:    fix.Latitude,
			Longitude:   fix.Longitude,
			Speed:       fix.Speed,
			Timestamp:   at,
		})
	}

	if bus.GPSStatus != models.GPSOnline {
		if err := db.SetBusGPSStatus(p.DB, bus.ID, models.GPSOnline); err != nil {
			return err
		}
		p.publish(events.BusOnline, events.SeverityInfo, bus, fmt.Sprintf("Bus %s is reporting again", bus.PlateNumber))
	}

	return p.checkOverspeed(bus, fix.Speed)
}

// checkOverspeed raises one Overspeed alert per violation episode: High
// above the limit, Critical at 25% past it. A second violation while the
// first alert is still Active is not duplicated.
func (p *Processor) checkOverspeed(bus *models.Bus, speed float64) error {
	limit := p.Config.SpeedLimitKPH
	if limit <= 0 || speed <= limit {
		return nil
	}

	exists, err := db.HasActiveAlert(p.DB, bus.ID, "Overspeed")
	if err != nil || exists {
		return err
	}

	severity := models.SeverityHigh
	eventSeverity := events.SeverityWarning
	if speed > limit*1.25 {
		severity = models.SeverityCritical
		eventSeverity = events.SeverityCritical
	}

	if _, err := db.CreateAlert(p.DB, bus.ID, "Overspeed", severity); err != nil {
		return err
	}

	p.publish(events.Overspeed, eventSeverity, bus,
		fmt.Sprintf("Bus %s at %.0f km/h (limit %.0f)", bus.PlateNumber, speed, limit))
	return nil
}

// SweepStale marks Online buses silent for longer than the configured
// window as Offline and raises a GPS signal lost alert for each. Run on
// an interval by the server.
func (p *Processor) SweepStale() {
	cutoff := time.Now().Add(-p.Config.GPSOfflineAfter)
	stale, err := db.StaleBuses(p.DB, cutoff)
	if err != nil {
		log.Printf("⚠️  Stale-bus sweep failed: %v", err)
		return
	}

	for _, bus := range stale {
		if err := db.SetBusGPSStatus(p.DB, bus.ID, models.GPSOffline); err != nil {
			log.Printf("⚠️  Could not mark bus %s offline: %v", bus.PlateNumber, err)
			continue
		}
		exists, err := db.HasActiveAlert(p.DB, bus.ID, "GPS signal lost")
		if err != nil || exists {
			continue
		}
		if _, err := db.CreateAlert(p.DB, bus.ID, "GPS signal lost", models.SeverityHigh); err != nil {
			log.Printf("⚠️  Could not create alert for %s: %v", bus.PlateNumber, err)
			continue
		}
		p.publish(events.GPSSignalLost, events.SeverityWarning,
			&models.Bus{ID: bus.ID, PlateNumber: bus.PlateNumber},
			fmt.Sprintf("Bus %s stopped reporting", bus.PlateNumber))
	}
}

// StartSweeper runs SweepStale on a fixed interval until stop is closed.
func (p *Processor) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.SweepStale()
			case <-stop:
				return
			}
		}
	}()
}

func (p *Processor) publish(eventType events.EventType, severity events.Severity, bus *models.Bus, message string) {
	if p.Bus == nil {
		return
	}
	p.Bus.Publish(events.Event{
		Type:        eventType,
		Severity:    severity,
		BusID:       bus.ID,
		PlateNumber: bus.PlateNumber,
		Message:     message,
	})
}
