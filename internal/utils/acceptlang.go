package utils

import (
	"strings"

	"golang.org/x/text/language"
)

// DetermineLocale picks one of supported for a request. An explicit ?lang=
// wins, then the best Accept-Language match, then def. Returned values are the
// supported entries lower-cased, e.g. "zh" for "zh-CN".
func DetermineLocale(queryLang, acceptLang string, supported []string, def string) string {
	if len(supported) == 0 {
		return "en"
	}
	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tags = append(tags, language.Make(s))
	}
	m := language.NewMatcher(tags)
	best := func(prefs ...language.Tag) (string, bool) {
		if len(prefs) == 0 {
			return "", false
		}
		_, i, conf := m.Match(prefs...)
		if conf == language.No {
			return "", false
		}
		return strings.ToLower(supported[i]), true
	}

	if queryLang != "" {
		if t, err := language.Parse(queryLang); err == nil {
			if v, ok := best(t); ok {
				return v
			}
		}
	}
	if prefs, _, err := language.ParseAcceptLanguage(acceptLang); err == nil {
		if v, ok := best(prefs...); ok {
			return v
		}
	}
	for _, s := range supported {
		if strings.EqualFold(s, def) {
			return strings.ToLower(s)
		}
	}
	return strings.ToLower(supported[0])
}
