package utils

const DefaultLocale = "id"

// SupportedLocales are the languages server messages are translated into.
var SupportedLocales = []string{"id", "en"}

var translations = map[string]map[string]string{
	"en": {
		"health.ok":           "ok",
		"error.invalid":       "invalid request",
		"error.load":          "the response file could not be read",
		"error.schema":        "the response file does not have the expected shape",
		"error.unknown_query": "unknown query identifier",
		"error.not_found":     "not found",
		"error.unauthorized":  "authentication required",
		"sentiment.positif":   "Positive",
		"sentiment.netral":    "Neutral",
		"sentiment.negatif":   "Negative",
	},
	"id": {
		"health.ok":           "baik",
		"error.invalid":       "permintaan tidak valid",
		"error.load":          "file kuesioner tidak dapat dibaca",
		"error.schema":        "format file kuesioner tidak sesuai",
		"error.unknown_query": "pertanyaan tidak dikenal",
		"error.not_found":     "tidak ditemukan",
		"error.unauthorized":  "perlu autentikasi",
		"sentiment.positif":   "Positif",
		"sentiment.netral":    "Netral",
		"sentiment.negatif":   "Negatif",
	},
}

// T returns the translated string for key in locale; falls back to English,
// then to the key itself.
func T(locale, key string) string {
	if v, ok := translations[locale][key]; ok {
		return v
	}
	if v, ok := translations["en"][key]; ok {
		return v
	}
	return key
}
