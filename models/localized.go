package models

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/language"
)

// Supported display languages.
const (
	LangEN = "en"
	LangRU = "ru"
)

// LocalizedText is the canonical form of every translatable field.
type LocalizedText struct {
	EN string `json:"en"`
	RU string `json:"ru"`
}

// Text returns the value stored for lang without any fallback.
func (t LocalizedText) Text(lang string) string {
	switch lang {
	case LangRU:
		return t.RU
	case LangEN:
		return t.EN
	}
	return ""
}

// Resolve returns the text for lang, falling back to en, then ru, then fallback.
func (t LocalizedText) Resolve(lang, fallback string) string {
	if v := t.Text(LanguageCode(lang)); v != "" {
		return v
	}
	if t.EN != "" {
		return t.EN
	}
	if t.RU != "" {
		return t.RU
	}
	return fallback
}

func (t LocalizedText) IsEmpty() bool {
	return t.EN == "" && t.RU == ""
}

// UnmarshalJSON accepts a plain string, a JSON-encoded object string or an object.
func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*t = LocalizedText{}
		return nil
	}
	*t = NormalizeLocalized(raw, "")
	return nil
}

// NormalizeLocalized coerces any stored shape of a localized field into LocalizedText.
// It never fails: unreadable input degrades to the literal string or to fallback.
func NormalizeLocalized(field any, fallback string) LocalizedText {
	switch v := field.(type) {
	case nil:
		return LocalizedText{EN: fallback, RU: fallback}
	case LocalizedText:
		return v
	case *LocalizedText:
		if v == nil {
			return LocalizedText{EN: fallback, RU: fallback}
		}
		return *v
	case json.RawMessage:
		return normalizeBytes(v, fallback)
	case []byte:
		return normalizeBytes(v, fallback)
	case string:
		return normalizeString(v, fallback)
	case map[string]any:
		return fromMap(v)
	case map[string]string:
		return LocalizedText{EN: v[LangEN], RU: v[LangRU]}
	case bool:
		if !v {
			return LocalizedText{EN: fallback, RU: fallback}
		}
	case float64:
		if v == 0 {
			return LocalizedText{EN: fallback, RU: fallback}
		}
	case int:
		if v == 0 {
			return LocalizedText{EN: fallback, RU: fallback}
		}
	}
	return LocalizedText{EN: fallback, RU: fallback}
}

// ResolveLocalized normalizes field and picks the text for lang.
func ResolveLocalized(field any, lang, fallback string) string {
	return NormalizeLocalized(field, "").Resolve(lang, fallback)
}

// LanguageCode strips the region from a language tag: "en-US" -> "en".
func LanguageCode(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return LangEN
	}
	if parsed, err := language.Parse(tag); err == nil {
		base, _ := parsed.Base()
		return base.String()
	}
	tag = strings.ToLower(tag)
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		return tag[:i]
	}
	return tag
}

func normalizeString(s, fallback string) LocalizedText {
	if s == "" {
		return LocalizedText{EN: fallback, RU: fallback}
	}
	if strings.HasPrefix(strings.TrimSpace(s), "{") {
		var m map[string]any
		if err := json.Unmarshal([]byte(s), &m); err == nil {
			return fromMap(m)
		}
	}
	return LocalizedText{EN: s, RU: s}
}

// normalizeBytes handles raw JSON column values.
func normalizeBytes(b []byte, fallback string) LocalizedText {
	if len(b) == 0 {
		return LocalizedText{EN: fallback, RU: fallback}
	}
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return normalizeString(string(b), fallback)
	}
	return NormalizeLocalized(raw, fallback)
}

func fromMap(m map[string]any) LocalizedText {
	var out LocalizedText
	if s, ok := m[LangEN].(string); ok {
		out.EN = s
	}
	if s, ok := m[LangRU].(string); ok {
		out.RU = s
	}
	return out
}
