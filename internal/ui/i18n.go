package ui

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-celebrate/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// SetupI18n initializes the translation bundle and detects available languages.
func (app *CelebrateApp) SetupI18n() {
	app.I18nBundle, app.SupportedLanguages = loadBundle()
	app.UpdateLocalizer()
}

// loadBundle reads every embedded locale file. The bundle is usable even
// when no file could be loaded; lookups then fall back to the keys.
func loadBundle() (*i18n.Bundle, []string) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return bundle, nil
	}

	var detectedLangs []string

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}

		detectedLangs = append(detectedLangs, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}

	return bundle, detectedLangs
}

// storedLanguage returns the remembered UI language or the default.
func storedLanguage(prefs fyne.Preferences) string {
	return prefs.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)
}

// EventSummary titles the exported calendar entry in the remembered
// language. It needs no window, so the export path can run headless.
func EventSummary(prefs fyne.Preferences, name string) string {
	bundle, _ := loadBundle()
	loc := i18n.NewLocalizer(bundle, storedLanguage(prefs), config.DefaultLanguage)
	msg, err := loc.Localize(&i18n.LocalizeConfig{
		MessageID:    config.TKeyEventSummary,
		TemplateData: map[string]any{"Name": name},
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, config.TKeyEventSummary,
			config.LogKeyError, err,
		)
		return fmt.Sprintf(config.FallbackSummary, name)
	}
	return msg
}

// UpdateLocalizer refreshes the translator based on the user's language preference.
func (app *CelebrateApp) UpdateLocalizer() {
	app.Localizer = i18n.NewLocalizer(app.I18nBundle, storedLanguage(app.Preferences), config.DefaultLanguage)
}

// GetMsg is a helper to translate a key safely.
func (app *CelebrateApp) GetMsg(key string) string {
	return app.GetMsgData(key, nil)
}

// GetMsgData translates a templated key. The key itself is returned when
// no translation exists.
func (app *CelebrateApp) GetMsgData(key string, data map[string]any) string {
	if app.Localizer == nil {
		slog.Warn(config.ErrLocNotInit,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
		)
		return key
	}
	msg, err := app.Localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}
