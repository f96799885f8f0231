package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-celebrate/internal/config"
)

// CalendarEvent describes the celebration as a calendar entry.
type CalendarEvent struct {
	Summary  string
	Start    time.Time
	Duration time.Duration

	// ReminderTrigger is an ISO8601 duration (e.g. "-PT10M"). Empty disables the alarm.
	ReminderTrigger string
}

// NewCalendarEvent builds the default event for a honoree.
func NewCalendarEvent(h Honoree) CalendarEvent {
	return CalendarEvent{
		Summary:         fmt.Sprintf(config.FallbackSummary, h.Name),
		Start:           h.Target,
		Duration:        config.DefaultEventDuration,
		ReminderTrigger: config.DefaultReminderTrigger,
	}
}

// EncodeCalendar renders the event as an iCalendar document.
// now is used for DTSTAMP.
func EncodeCalendar(ev CalendarEvent, now time.Time) ([]byte, error) {
	cal := ical.NewCalendar()

	// Set standard iCalendar headers
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// Deterministic UID so re-exports update the same entry in calendar apps.
	hash := sha256.Sum256([]byte(fmt.Sprintf(config.FormatHashInput, ev.Summary, ev.Start.UTC().Format(time.RFC3339), config.UIDSalt)))

	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, hash[:config.UIDHashLength], config.ICalDomain))
	event.Props.SetText(config.PropSummary, ev.Summary)
	event.Props.SetDateTime(config.PropDTStamp, now.UTC())
	event.Props.SetDateTime(config.PropDTStart, ev.Start.UTC())
	if ev.Duration > 0 {
		event.Props.SetDateTime(config.PropDTEnd, ev.Start.Add(ev.Duration).UTC())
	}

	if ev.ReminderTrigger != "" {
		addAlarm(event, ev.ReminderTrigger, ev.Summary)
	}

	cal.Children = append(cal.Children, event.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}

// ExportCalendar writes the event to path.
func ExportCalendar(path string, ev CalendarEvent, now time.Time) error {
	data, err := EncodeCalendar(ev, now)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrExportWrite, err)
	}

	slog.Info(config.MsgExported,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyFile, path,
		config.LogKeySizeBytes, len(data))
	return nil
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
