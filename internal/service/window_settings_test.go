package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvmanager/internal/service"
)

type memSettings struct {
	values map[string]string
	err    error
}

func (m *memSettings) Get(key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memSettings) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func TestWindowSettings_Defaults(t *testing.T) {
	size := service.NewWindowSettingsService(nil).LoadWindowSize()
	assert.Equal(t, service.WindowSize{Width: 1024, Height: 680}, size)

	size = service.NewWindowSettingsService(&memSettings{}).LoadWindowSize()
	assert.Equal(t, service.WindowSize{Width: 1024, Height: 680}, size)
}

func TestWindowSettings_RoundTrip(t *testing.T) {
	svc := service.NewWindowSettingsService(&memSettings{})
	require.NoError(t, svc.SaveWindowSize(1500, 900))
	assert.Equal(t, service.WindowSize{Width: 1500, Height: 900}, svc.LoadWindowSize())
}

func TestWindowSettings_IgnoresTooSmallOrGarbage(t *testing.T) {
	store := &memSettings{values: map[string]string{"window_width": "100", "window_height": "tall"}}
	size := service.NewWindowSettingsService(store).LoadWindowSize()
	assert.Equal(t, service.WindowSize{Width: 1024, Height: 680}, size)
}

func TestWindowSettings_SaveError(t *testing.T) {
	svc := service.NewWindowSettingsService(&memSettings{err: errors.New("disk")})
	assert.Error(t, svc.SaveWindowSize(800, 600))
	assert.Error(t, service.NewWindowSettingsService(nil).SaveWindowSize(800, 600))
}
