// Package i18n resolves the request locale and translates message keys.
// Arabic is the default; English is the only other locale.
package i18n

import (
	"fmt"
	"strings"

	"github.com/dorada-store/internal/constants"

	"github.com/gin-gonic/gin"
)

var defaultLocale = constants.LocaleAr

// SetDefaultLocale overrides the fallback locale (app.default_locale).
func SetDefaultLocale(locale string) {
	if normalized := Normalize(locale); normalized != "" {
		defaultLocale = normalized
	}
}

// Normalize maps ar-IQ, en_US, EN ... onto a supported locale, or "".
func Normalize(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		return ""
	}
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		locale = locale[:idx]
	}
	for _, supported := range constants.SupportedLocales {
		if locale == supported {
			return supported
		}
	}
	return ""
}

// ResolveLocale picks ?lang= first, then Accept-Language, then the default.
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return defaultLocale
	}
	if locale := Normalize(c.Query("lang")); locale != "" {
		return locale
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		tag := part
		if idx := strings.Index(tag, ";"); idx >= 0 {
			tag = tag[:idx]
		}
		if locale := Normalize(tag); locale != "" {
			return locale
		}
	}
	return defaultLocale
}

// T translates key; unknown keys fall back to the default locale, then to
// the key itself.
func T(locale, key string) string {
	if msg, ok := lookup(locale, key); ok {
		return msg
	}
	if msg, ok := lookup(defaultLocale, key); ok {
		return msg
	}
	return key
}

// Sprintf translates key and formats the result with args.
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// Has reports whether key exists in any locale.
func Has(key string) bool {
	for _, table := range messages {
		if _, ok := table[key]; ok {
			return true
		}
	}
	return false
}

func lookup(locale, key string) (string, bool) {
	table, ok := messages[Normalize(locale)]
	if !ok {
		return "", false
	}
	msg, ok := table[key]
	return msg, ok
}
