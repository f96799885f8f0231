package ui

import (
	"log/slog"
	"slices"
	"time"

	"fyne.io/fyne/v2"
	"github.com/tartampluch/go-celebrate/internal/config"
	"github.com/tartampluch/go-celebrate/internal/engine"
)

// Settings are command-line overrides of the remembered preferences.
// Empty fields fall back to the stored value, then to the defaults.
type Settings struct {
	Name      string
	Target    string
	VCardPath string
	AssetsDir string
	Language  string
}

// ResolveHonoree determines who is celebrated and when. A vCard wins over
// the name and target fields. Every value given explicitly is remembered
// for the next run once it has been validated. A remembered vCard is read
// again on each run so the birthday is projected from the current date;
// an explicit target replaces it.
func ResolveHonoree(prefs fyne.Preferences, s Settings, now time.Time) (engine.Honoree, error) {
	if s.VCardPath != "" {
		h, err := honoreeFromVCard(s.VCardPath, s.Name, now)
		if err != nil {
			return engine.Honoree{}, err
		}
		prefs.SetString(config.PrefVCard, s.VCardPath)
		prefs.SetString(config.PrefName, h.Name)
		return h, nil
	}

	if stored := prefs.String(config.PrefVCard); stored != "" && s.Target == "" {
		h, err := honoreeFromVCard(stored, s.Name, now)
		if err == nil {
			if s.Name != "" {
				prefs.SetString(config.PrefName, s.Name)
			}
			return h, nil
		}
		slog.Warn(config.MsgStoredVCardFailed,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyFile, stored,
			config.LogKeyError, err)
	}

	raw := s.Target
	if raw == "" {
		raw = prefs.StringWithFallback(config.PrefTarget, config.DefaultTarget)
	}
	target, err := engine.ParseTarget(raw, now.Location())
	if err != nil {
		return engine.Honoree{}, err
	}
	if s.Target != "" {
		prefs.SetString(config.PrefTarget, s.Target)
		prefs.SetString(config.PrefVCard, "")
	}

	name := s.Name
	if name == "" {
		name = prefs.StringWithFallback(config.PrefName, config.DefaultName)
	} else {
		prefs.SetString(config.PrefName, name)
	}

	slog.Debug(config.MsgHonoreeResolved,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyName, name,
		config.LogKeyTarget, target.Format(config.DateFormatRFC3339))

	return engine.Honoree{Name: name, Target: target}, nil
}

func honoreeFromVCard(path, name string, now time.Time) (engine.Honoree, error) {
	h, err := engine.LoadHonoreeFile(path, now, config.DefaultTimeOfDay)
	if err != nil {
		return engine.Honoree{}, err
	}
	if name != "" {
		h.Name = name
	}
	return h, nil
}

// ResolveAssetsDir returns the assets directory, remembering an explicit one.
func ResolveAssetsDir(prefs fyne.Preferences, s Settings) string {
	if s.AssetsDir != "" {
		prefs.SetString(config.PrefAssetsDir, s.AssetsDir)
		return s.AssetsDir
	}
	return prefs.StringWithFallback(config.PrefAssetsDir, config.DefaultAssetsDir)
}

// ResolveLanguage stores an explicit supported language so the localizer
// picks it up. Unknown codes are logged and leave the preference untouched.
func ResolveLanguage(prefs fyne.Preferences, s Settings) string {
	if s.Language != "" {
		if slices.Contains(config.SupportedLanguages, s.Language) {
			prefs.SetString(config.PrefLanguage, s.Language)
			return s.Language
		}
		slog.Warn(config.MsgLangUnsupported,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, s.Language)
	}
	return prefs.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)
}
