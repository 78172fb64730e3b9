package i18n

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/pebble"
)

// LanguageKey is the storage key shared with the mobile apps.
const LanguageKey = "@giwa_language"

// Preferences persists the selected language in a Pebble database.
type Preferences struct {
	db  *pebble.DB
	log *slog.Logger

	mu   sync.RWMutex
	lang Language
}

// OpenPreferences opens (or creates) the store at path and loads the saved
// language once. A missing or unreadable value falls back to the default.
func OpenPreferences(path string, log *slog.Logger) (*Preferences, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preferences path is empty")
	}
	if log == nil {
		log = slog.Default()
	}

	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}

	p := &Preferences{db: db, log: log, lang: DefaultLanguage}
	p.load()
	return p, nil
}

func (p *Preferences) load() {
	value, closer, err := p.db.Get([]byte(LanguageKey))
	if err != nil {
		if !errors.Is(err, pebble.ErrNotFound) {
			p.log.Error("failed to load language", "error", err)
		}
		return
	}
	defer closer.Close()

	lang := Language(value)
	if lang.Valid() {
		p.lang = lang
	}
}

// Language returns the current language.
func (p *Preferences) Language() Language {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lang
}

// Strings returns the table for the current language.
func (p *Preferences) Strings() Strings {
	return For(p.Language())
}

// SetLanguage writes lang durably and then switches to it. On a write error
// the previous language stays active.
func (p *Preferences) SetLanguage(lang Language) error {
	if !lang.Valid() {
		return fmt.Errorf("%w %q", ErrUnsupportedLanguage, lang)
	}
	if err := p.db.Set([]byte(LanguageKey), []byte(lang), pebble.Sync); err != nil {
		return fmt.Errorf("save language: %w", err)
	}

	p.mu.Lock()
	p.lang = lang
	p.mu.Unlock()
	return nil
}

func (p *Preferences) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}
