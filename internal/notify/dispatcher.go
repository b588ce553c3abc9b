package notify

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nicholas-fedor/shoutrrr"

	"slgps/internal/events"
)

// Sender abstracts message dispatch so the dispatcher can be tested
// without hitting real services.
type Sender interface {
	Send(shoutrrrURL, message string) error
}

// ShoutrrrSender dispatches via the Shoutrrr library.
type ShoutrrrSender struct{}

func (ShoutrrrSender) Send(url, message string) error {
	return shoutrrr.Send(url, message)
}

// channelConfig is the Shoutrrr URL extracted from a channel's config_json.
type channelConfig struct {
	ShoutrrrURL string `json:"shoutrrr_url"`
}

// Dispatcher subscribes to the event bus, evaluates per-channel rules,
// enforces cooldowns, and dispatches via Shoutrrr.
type Dispatcher struct {
	db     *sql.DB
	bus    *events.Bus
	sender Sender

	// cooldowns tracks the last dispatch time per (channel_id, event_type).
	mu        sync.Mutex
	cooldowns map[string]time.Time

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher wired to the given bus and database.
func NewDispatcher(db *sql.DB, bus *events.Bus, sender Sender) *Dispatcher {
	if sender == nil {
		sender = ShoutrrrSender{}
	}
	return &Dispatcher{
		db:        db,
		bus:       bus,
		sender:    sender,
		cooldowns: make(map[string]time.Time),
		stopCh:    make(chan struct{}),
	}
}

// Start subscribes to all events and begins dispatching.
func (d *Dispatcher) Start() {
	ch := make(chan events.Event, 256)

	d.bus.Subscribe(func(e events.Event) {
		select {
		case ch <- e:
		default:
			log.Printf("notify: event queue full, dropping %s event", e.Type)
		}
	})

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case e := <-ch:
				d.handle(e)
			case <-d.stopCh:
				// Drain remaining events
				for {
					select {
					case e := <-ch:
						d.handle(e)
					default:
						return
					}
				}
			}
		}
	}()
}

// Stop signals the dispatcher goroutine to finish and waits for it.
func (d *Dispatcher) Stop() {
	close(d.stopCh)
	d.wg.Wait()
}

// handle processes a single event against all enabled channels.
func (d *Dispatcher) handle(e events.Event) {
	channels, err := ListEnabledChannels(d.db)
	if err != nil {
		log.Printf("notify: list channels: %v", err)
		return
	}

	for _, ch := range channels {
		if !severityAllowed(ch, e.Severity) {
			continue
		}
		if !d.eventRuleAllowed(ch.ID, e) {
			continue
		}
		d.dispatch(ch, e)
	}
}

// severityAllowed checks the channel's severity flags.
func severityAllowed(ch Channel, sev events.Severity) bool {
	switch sev {
	case events.SeverityCritical:
		return ch.NotifyOnCritical
	case events.SeverityWarning:
		return ch.NotifyOnWarning
	case events.SeverityInfo:
		return ch.NotifyOnInfo
	default:
		return false
	}
}

// eventRuleAllowed checks per-event-type rules and enforces cooldowns.
func (d *Dispatcher) eventRuleAllowed(channelID int64, e events.Event) bool {
	rules, err := GetEventRules(d.db, channelID)
	if err != nil {
		log.Printf("notify: get rules for channel %d: %v", channelID, err)
		return true // fail open — if rules can't load, allow
	}

	for _, r := range rules {
		if r.EventType != string(e.Type) {
			continue
		}
		if !r.Enabled {
			return false
		}

		if r.Cooldown > 0 {
			key := fmt.Sprintf("%d:%s", channelID, e.Type)
			d.mu.Lock()
			last, ok := d.cooldowns[key]
			now := time.Now()
			if ok && now.Sub(last) < time.Duration(r.Cooldown)*time.Second {
				d.mu.Unlock()
				return false
			}
			d.cooldowns[key] = now
			d.mu.Unlock()
		}
		return true
	}

	// Event type not in rules list — allow by default.
	return true
}

// dispatch sends the notification and records the result.
func (d *Dispatcher) dispatch(ch Channel, e events.Event) {
	var cfg channelConfig
	if err := json.Unmarshal([]byte(ch.ConfigJSON), &cfg); err != nil {
		log.Printf("notify: bad config for channel %d (%s): %v", ch.ID, ch.Name, err)
		return
	}
	if cfg.ShoutrrrURL == "" {
		log.Printf("notify: channel %d (%s) has no shoutrrr_url", ch.ID, ch.Name)
		return
	}

	msg := formatMessage(e)
	err := d.sender.Send(cfg.ShoutrrrURL, msg)

	rec := &Record{
		ChannelID:   ch.ID,
		EventType:   string(e.Type),
		PlateNumber: e.PlateNumber,
		Message:     msg,
	}

	if err != nil {
		rec.Status = "failed"
		rec.ErrorMessage = err.Error()
		log.Printf("notify: send to %s failed: %v", ch.Name, err)
	} else {
		rec.Status = "sent"
		rec.SentAt = time.Now().UTC()
	}

	if _, dbErr := RecordDispatch(d.db, rec); dbErr != nil {
		log.Printf("notify: record history: %v", dbErr)
	}
}

// formatMessage builds a human-readable notification string.
func formatMessage(e events.Event) string {
	severity := e.Severity.String()
	if e.PlateNumber != "" {
		return fmt.Sprintf("[%s] [%s] %s", severity, e.PlateNumber, e.Message)
	}
	return fmt.Sprintf("[%s] %s", severity, e.Message)
}
