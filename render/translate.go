package render

import "github.com/quonaro/portfolio-backend/models"

// Translator resolves an i18n key for a two-letter language; "" means unknown.
type Translator func(key, lang string) string

const NoMediaKey = "admin.dashboard.noMedia"

var defaultStrings = map[string]models.LocalizedText{
	models.LabelKeyDownload: {EN: "Download", RU: "Скачать"},
	models.LabelKeyDemo:     {EN: "Demo", RU: "Демо"},
	models.LabelKeyDocs:     {EN: "Docs", RU: "Документация"},
	models.LabelKeyWatch:    {EN: "Watch", RU: "Смотреть"},
	models.LabelKeyRead:     {EN: "Read", RU: "Читать"},
	models.LabelKeyDesign:   {EN: "Design", RU: "Дизайн"},
	NoMediaKey:              {EN: "No media", RU: "Нет медиа"},
}

// DefaultTranslator knows the legacy button label keys.
func DefaultTranslator(key, lang string) string {
	if text, ok := defaultStrings[key]; ok {
		return text.Resolve(lang, "")
	}
	return ""
}

// ButtonLabel resolves a button label: label object, then labelKey, then "Link".
func ButtonLabel(b models.ActionButton, lang string, t Translator) string {
	if b.Label != nil {
		if label := b.Label.Resolve(lang, ""); label != "" {
			return label
		}
	}
	if b.LabelKey != "" && t != nil {
		if label := t(b.LabelKey, lang); label != "" {
			return label
		}
	}
	return "Link"
}
