package translator

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var languageNames = map[string]string{
	"en":    "English",
	"vi":    "Vietnamese",
	"ja":    "Japanese",
	"ko":    "Korean",
	"zh-CN": "Chinese",
	"fr":    "French",
	"es":    "Spanish",
	"de":    "German",
	"ru":    "Russian",
}

// LanguageName returns the English display name used in LLM prompts.
// Codes that cannot be parsed are returned unchanged.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	base, _ := tag.Base()
	if name := display.English.Languages().Name(base); name != "" {
		return name
	}
	return code
}

// libreLanguageCode maps our language codes to LibreTranslate's.
func libreLanguageCode(code string) string {
	switch code {
	case "zh-CN":
		return "zh"
	case "":
		return AutoDetect
	default:
		return code
	}
}
