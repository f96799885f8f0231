package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-celebrate/internal/config"
)

// Honoree is the person being celebrated and the celebration moment.
type Honoree struct {
	// Name is the display name used in greetings.
	Name string

	// Target is the TargetInstant the countdown runs to. It is never mutated.
	Target time.Time
}

// ParseTarget parses a user-supplied target instant.
// RFC 3339 values carry their own offset; the short layouts are interpreted in loc.
func ParseTarget(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(config.DateFormatRFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range []string{config.DateFormatLocalT, config.DateFormatLocal, config.DateFormatFullDash} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%s: %q", config.ErrTargetParse, value)
}

// LoadHonoreeFile reads the first card with a BDAY from a .vcf file.
func LoadHonoreeFile(path string, now time.Time, timeOfDay time.Duration) (Honoree, error) {
	f, err := os.Open(path)
	if err != nil {
		return Honoree{}, fmt.Errorf("%s: %w", config.ErrVCardOpen, err)
	}
	// Best effort close. Errors in Close() for read-only files are rarely actionable here.
	defer func() { _ = f.Close() }()

	return LoadHonoree(f, now, timeOfDay)
}

// LoadHonoree decodes vCards from r and returns the first contact with a
// usable birthday. The target is the next occurrence of that birthday
// (today included) at timeOfDay, in the location of now.
func LoadHonoree(r io.Reader, now time.Time, timeOfDay time.Duration) (Honoree, error) {
	decoder := vcard.NewDecoder(r)

	for {
		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Honoree{}, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
		}

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		birthDate, _, err := parseDate(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyValue, bday.Value)
			continue
		}

		// Name Strategy: FN (Formatted) > N (Structured) > Fallback
		name := config.FallbackName
		if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
			name = fn.Value
		} else if n := card.Name(); n != nil && n.GivenName != "" {
			name = n.GivenName
		}

		next := nextOccurrence(now, birthDate, timeOfDay)
		slog.Info(config.MsgHonoreeLoaded,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyName, name,
			config.LogKeyTarget, next.Format(time.RFC3339))

		return Honoree{Name: name, Target: next}, nil
	}

	return Honoree{}, errors.New(config.ErrVCardNoBirthday)
}

// nextOccurrence determines the next birthday moment relative to 'now'.
// A birthday falling today stays today even if timeOfDay has passed, so the
// countdown completes immediately on the day itself.
func nextOccurrence(now time.Time, birthDate time.Time, timeOfDay time.Duration) time.Time {
	loc := now.Location()

	// Go's time.Date normalizes Feb 29 to March 1st if the year is not a leap year.
	candidate := time.Date(now.Year(), birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	if candidate.Before(todayStart) {
		candidate = time.Date(now.Year()+1, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
	}
	return candidate.Add(timeOfDay)
}

// parseDate handles various vCard date formats.
func parseDate(value string) (time.Time, bool, error) {
	// Full dates (Year known)
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}

	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	// Truncated dates (Year unknown) - vCard specific
	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			safeDate := time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return safeDate, false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}
