package engine_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-celebrate/internal/config"
	"github.com/tartampluch/go-celebrate/internal/engine"
)

func testEvent() engine.CalendarEvent {
	return engine.NewCalendarEvent(engine.Honoree{
		Name:   "Ada",
		Target: time.Date(2025, 5, 4, 21, 36, 0, 0, time.UTC),
	})
}

func TestNewCalendarEvent(t *testing.T) {
	ev := testEvent()
	assert.Equal(t, "Birthday: Ada", ev.Summary)
	assert.Equal(t, config.DefaultEventDuration, ev.Duration)
	assert.Equal(t, config.DefaultReminderTrigger, ev.ReminderTrigger)
}

func TestEncodeCalendar(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	data, err := engine.EncodeCalendar(testEvent(), now)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "PRODID:"+config.ICalProdid)
	assert.Contains(t, out, "BEGIN:VEVENT")
	assert.Contains(t, out, "SUMMARY:Birthday: Ada")
	assert.Contains(t, out, "DTSTART:20250504T213600Z")
	assert.Contains(t, out, "DTEND:20250504T223600Z")
	assert.Contains(t, out, "DTSTAMP:20250401T080000Z")
	assert.Contains(t, out, "BEGIN:VALARM")
	assert.Contains(t, out, "TRIGGER:-PT10M")
	assert.Contains(t, out, "ACTION:DISPLAY")
	assert.Contains(t, out, "@"+config.ICalDomain)
}

func TestEncodeCalendar_StableUID(t *testing.T) {
	first, err := engine.EncodeCalendar(testEvent(), time.Now())
	require.NoError(t, err)
	second, err := engine.EncodeCalendar(testEvent(), time.Now().Add(time.Hour))
	require.NoError(t, err)

	uid := func(data []byte) string {
		for _, line := range strings.Split(string(data), "\n") {
			if strings.HasPrefix(line, "UID:") {
				return strings.TrimSpace(line)
			}
		}
		return ""
	}
	require.NotEmpty(t, uid(first))
	assert.Equal(t, uid(first), uid(second), "re-exports update the same entry")
}

func TestEncodeCalendar_NoAlarm(t *testing.T) {
	ev := testEvent()
	ev.ReminderTrigger = ""
	ev.Duration = 0

	data, err := engine.EncodeCalendar(ev, time.Now())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "BEGIN:VALARM")
	assert.NotContains(t, string(data), "DTEND")
}

func TestExportCalendar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "birthday.ics")

	require.NoError(t, engine.ExportCalendar(path, testEvent(), time.Now()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SUMMARY:Birthday: Ada")

	err = engine.ExportCalendar(filepath.Join(dir, "missing", "out.ics"), testEvent(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrExportWrite)
}
