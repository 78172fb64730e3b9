// Package i18n holds the Korean/English string table used for probe names
// and messages, and the persisted language preference.
package i18n

import (
	"errors"
	"fmt"
	"strings"
)

type Language string

const (
	Korean  Language = "ko"
	English Language = "en"

	DefaultLanguage = Korean
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

// ParseLanguage accepts "ko" or "en" in any case.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case Korean:
		return Korean, nil
	case English:
		return English, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnsupportedLanguage, s)
}

func (l Language) Valid() bool {
	return l == Korean || l == English
}

// For returns the string table for lang, falling back to the default
// language for unknown values.
func For(lang Language) Strings {
	if t, ok := tables[lang]; ok {
		return t
	}
	return tables[DefaultLanguage]
}
