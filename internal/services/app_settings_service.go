package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"policyqa/internal/repositories"
)

// Storage keys and defaults for the persisted UI preferences.
const (
	ThemeKey   = "policyqa.theme"
	SidebarKey = "policyqa.sidebar"

	DefaultTheme   = "light"
	DefaultSidebar = "expanded"
)

// AppSettingsService reads and writes the persisted display preferences.
// Missing or invalid stored values degrade to the defaults rather than
// erroring, so a damaged store never blocks startup.
type AppSettingsService interface {
	Startup(ctx context.Context)
	Theme() string
	SetTheme(theme string) error
	Sidebar() string
	SetSidebar(state string) error
}

type appSettingsService struct {
	repo repositories.KVRepository
	ctx  context.Context
}

func NewAppSettingsService(repo repositories.KVRepository) AppSettingsService {
	return &appSettingsService{repo: repo, ctx: context.Background()}
}

func (s *appSettingsService) Startup(ctx context.Context) {
	s.ctx = ctx
}

func (s *appSettingsService) Theme() string {
	return s.read(ThemeKey, DefaultTheme, "light", "dark")
}

func (s *appSettingsService) SetTheme(theme string) error {
	if theme != "light" && theme != "dark" {
		return errors.New("theme must be 'light' or 'dark'")
	}
	return s.write(ThemeKey, theme)
}

func (s *appSettingsService) Sidebar() string {
	return s.read(SidebarKey, DefaultSidebar, "collapsed", "expanded")
}

func (s *appSettingsService) SetSidebar(state string) error {
	if state != "collapsed" && state != "expanded" {
		return errors.New("sidebar state must be 'collapsed' or 'expanded'")
	}
	return s.write(SidebarKey, state)
}

func (s *appSettingsService) read(key, fallback string, allowed ...string) string {
	raw, ok, err := s.repo.Get(s.ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("settings: read failed, using default")
		return fallback
	}
	if !ok {
		return fallback
	}
	for _, v := range allowed {
		if raw == v {
			return raw
		}
	}
	log.Warn().Str("key", key).Str("value", raw).Msg("settings: stored value invalid, using default")
	return fallback
}

func (s *appSettingsService) write(key, value string) error {
	if err := s.repo.Put(s.ctx, key, value); err != nil {
		return fmt.Errorf("service: save setting %s: %w", key, err)
	}
	return nil
}
