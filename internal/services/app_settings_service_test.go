package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppSettingsService_Theme_DefaultWhenUnset(t *testing.T) {
	svc := NewAppSettingsService(&kvRepositoryMock{})
	assert.Equal(t, "light", svc.Theme())
}

func TestAppSettingsService_SetTheme_RoundTrip(t *testing.T) {
	svc := NewAppSettingsService(memoryKV())

	require.NoError(t, svc.SetTheme("dark"))
	assert.Equal(t, "dark", svc.Theme())

	require.NoError(t, svc.SetTheme("light"))
	assert.Equal(t, "light", svc.Theme())
}

func TestAppSettingsService_SetTheme_RejectsUnknownValue(t *testing.T) {
	puts := 0
	svc := NewAppSettingsService(&kvRepositoryMock{
		PutFunc: func(context.Context, string, string) error {
			puts++
			return nil
		},
	})

	err := svc.SetTheme("solarized")
	assert.EqualError(t, err, "theme must be 'light' or 'dark'")
	assert.Zero(t, puts)
}

func TestAppSettingsService_Theme_InvalidStoredValueFallsBack(t *testing.T) {
	svc := NewAppSettingsService(&kvRepositoryMock{
		GetFunc: func(context.Context, string) (string, bool, error) {
			return "solarized", true, nil
		},
	})

	assert.Equal(t, "light", svc.Theme())
}

func TestAppSettingsService_Theme_ReadErrorFallsBack(t *testing.T) {
	svc := NewAppSettingsService(&kvRepositoryMock{
		GetFunc: func(context.Context, string) (string, bool, error) {
			return "", false, assert.AnError
		},
	})

	assert.Equal(t, "light", svc.Theme())
}

func TestAppSettingsService_Sidebar_DefaultExpanded(t *testing.T) {
	svc := NewAppSettingsService(&kvRepositoryMock{})
	assert.Equal(t, "expanded", svc.Sidebar())
}

func TestAppSettingsService_SetSidebar_RoundTrip(t *testing.T) {
	svc := NewAppSettingsService(memoryKV())

	require.NoError(t, svc.SetSidebar("collapsed"))
	assert.Equal(t, "collapsed", svc.Sidebar())
}

func TestAppSettingsService_SetSidebar_RejectsUnknownValue(t *testing.T) {
	svc := NewAppSettingsService(&kvRepositoryMock{})
	assert.EqualError(t, svc.SetSidebar("hidden"), "sidebar state must be 'collapsed' or 'expanded'")
}

func TestAppSettingsService_SetTheme_WriteErrorSurfaces(t *testing.T) {
	svc := NewAppSettingsService(&kvRepositoryMock{
		PutFunc: func(context.Context, string, string) error {
			return assert.AnError
		},
	})

	err := svc.SetTheme("dark")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestAppSettingsService_SettingsUseDistinctKeys(t *testing.T) {
	keys := map[string]string{}
	svc := NewAppSettingsService(&kvRepositoryMock{
		PutFunc: func(_ context.Context, key, value string) error {
			keys[key] = value
			return nil
		},
	})

	require.NoError(t, svc.SetTheme("dark"))
	require.NoError(t, svc.SetSidebar("collapsed"))

	assert.Equal(t, "dark", keys[ThemeKey])
	assert.Equal(t, "collapsed", keys[SidebarKey])
}
