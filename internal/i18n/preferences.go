package i18n

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

const (
	languageStorageKey = "language"
	userIDStorageKey   = "userId"
)

// Storage is the persisted client key/value store.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// PreferenceSaver mirrors a user's language choice to the server-side store.
type PreferenceSaver interface {
	SaveLanguage(ctx context.Context, userID string, lang Language) error
}

// Preferences keeps the language choice and the signed-in user id in local
// storage. Without storage every read reports nothing and writes are dropped.
type Preferences struct {
	storage Storage
	saver   PreferenceSaver
	log     zerolog.Logger

	pending sync.WaitGroup
}

func NewPreferences(storage Storage, saver PreferenceSaver, log zerolog.Logger) *Preferences {
	return &Preferences{storage: storage, saver: saver, log: log}
}

func (p *Preferences) SaveLanguagePreference(ctx context.Context, lang Language) {
	if p.storage == nil {
		return
	}
	if err := p.storage.Set(ctx, languageStorageKey, []byte(lang)); err != nil {
		p.log.Warn().Err(err).Msg("save language preference failed")
	}
}

func (p *Preferences) GetLanguagePreference(ctx context.Context) (Language, bool) {
	if p.storage == nil {
		return "", false
	}
	raw, err := p.storage.Get(ctx, languageStorageKey)
	if err != nil {
		p.log.Warn().Err(err).Msg("read language preference failed")
		return "", false
	}
	if raw == nil {
		return "", false
	}
	return ParseLanguage(string(raw))
}

// InitialLanguage resolves the language at start-up: stored preference, then
// the reported locale (which is then stored), then the default.
func (p *Preferences) InitialLanguage(ctx context.Context, reportedLocale string) Language {
	if lang, ok := p.GetLanguagePreference(ctx); ok {
		return lang
	}
	lang := DetectLanguage(reportedLocale)
	p.SaveLanguagePreference(ctx, lang)
	return lang
}

// SetLanguage stores the choice locally and, for a known user, pushes it to
// the server in the background. Push failures are only logged.
func (p *Preferences) SetLanguage(ctx context.Context, lang Language) {
	p.SaveLanguagePreference(ctx, lang)

	userID, ok := p.UserID(ctx)
	if !ok || p.saver == nil {
		return
	}

	pushCtx := context.WithoutCancel(ctx)
	p.pending.Add(1)
	go func() {
		defer p.pending.Done()
		if err := p.saver.SaveLanguage(pushCtx, userID, lang); err != nil {
			p.log.Error().Err(err).Str("user_id", userID).Msg("save language preference to server failed")
		}
	}()
}

// Wait blocks until background preference pushes have finished.
func (p *Preferences) Wait() {
	p.pending.Wait()
}

func (p *Preferences) UserID(ctx context.Context) (string, bool) {
	if p.storage == nil {
		return "", false
	}
	raw, err := p.storage.Get(ctx, userIDStorageKey)
	if err != nil || len(raw) == 0 {
		return "", false
	}
	return string(raw), true
}

func (p *Preferences) SetUserID(ctx context.Context, userID string) {
	if p.storage == nil || userID == "" {
		return
	}
	if err := p.storage.Set(ctx, userIDStorageKey, []byte(userID)); err != nil {
		p.log.Warn().Err(err).Msg("save user id failed")
	}
}

func (p *Preferences) ClearUserID(ctx context.Context) {
	if p.storage == nil {
		return
	}
	if err := p.storage.Delete(ctx, userIDStorageKey); err != nil {
		p.log.Warn().Err(err).Msg("clear user id failed")
	}
}
