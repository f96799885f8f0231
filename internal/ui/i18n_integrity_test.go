package ui_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-celebrate/internal/config"
)

var translationKeys = []string{
	config.TKeyWinTitle,
	config.TKeyCountdownTitle,
	config.TKeyUnitDays,
	config.TKeyUnitHours,
	config.TKeyUnitMinutes,
	config.TKeyUnitSeconds,
	config.TKeyHappyBirthday,
	config.TKeyBtnGift,
	config.TKeyMemoriesTitle,
	config.TKeyBtnParty,
	config.TKeyPartyTitle,
	config.TKeyBtnStartParty,
	config.TKeyImageAlt,
	config.TKeyNoMemories,
	config.TKeyEventSummary,
}

func loadLocale(t *testing.T, lang string) map[string]any {
	t.Helper()

	// Adjust path if running test from internal/ui or root
	path := filepath.Join("locales", "active."+lang+".json")
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		path = filepath.Join("..", "..", "internal", "ui", "locales", "active."+lang+".json")
		content, err = os.ReadFile(path)
	}
	require.NoError(t, err, "Must load active.%s.json", lang)

	var jsonMap map[string]any
	require.NoError(t, json.Unmarshal(content, &jsonMap), "JSON must be valid")
	return jsonMap
}

// TestI18nIntegrity ensures that every translation key defined in config.go
// exists in every locale file.
func TestI18nIntegrity(t *testing.T) {
	defined := make(map[string]bool, len(translationKeys))
	for _, k := range translationKeys {
		defined[k] = true
	}

	for _, lang := range config.SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			jsonMap := loadLocale(t, lang)

			for key := range defined {
				_, exists := jsonMap[key]
				assert.Truef(t, exists, "Key '%s' defined in config.go is missing in active.%s.json", key, lang)
			}

			for jsonKey := range jsonMap {
				if strings.HasPrefix(jsonKey, "_") {
					continue
				}
				if !defined[jsonKey] {
					t.Logf("Warning: Key '%s' exists in JSON but is not checked in the test suite (might be unused)", jsonKey)
				}
			}
		})
	}
}

// TestI18nTemplates ensures templated messages keep their placeholders.
func TestI18nTemplates(t *testing.T) {
	for _, lang := range config.SupportedLanguages {
		jsonMap := loadLocale(t, lang)
		assert.Contains(t, jsonMap[config.TKeyHappyBirthday], "{{.Name}}", lang)
		assert.Contains(t, jsonMap[config.TKeyPartyTitle], "{{.Name}}", lang)
		assert.Contains(t, jsonMap[config.TKeyImageAlt], "{{.Index}}", lang)
	}
}
