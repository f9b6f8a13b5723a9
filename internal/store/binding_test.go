package store

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/gesteasy/internal/gesture"
)

func newBinding(e gesture.Event) *Binding {
	return &Binding{
		ID:         uuid.NewString(),
		Event:      e,
		PluginName: "keyboard",
		ActionName: "press",
		Config:     json.RawMessage(`{"key":"enter"}`),
		Enabled:    true,
	}
}

func TestBindingRepository_CRUD(t *testing.T) {
	repo := newTestStore(t).Bindings()

	b := newBinding(gesture.ConfirmNavigate)
	require.NoError(t, repo.Create(b))
	assert.False(t, b.CreatedAt.IsZero())

	got, err := repo.GetByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, gesture.ConfirmNavigate, got.Event)
	assert.Equal(t, "keyboard", got.PluginName)
	assert.JSONEq(t, `{"key":"enter"}`, string(got.Config))
	assert.True(t, got.Enabled)

	b.ActionName = "hotkey"
	b.Enabled = false
	require.NoError(t, repo.Update(b))

	got, err = repo.GetByEvent(gesture.ConfirmNavigate)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "hotkey", got.ActionName)
	assert.False(t, got.Enabled)

	require.NoError(t, repo.Delete(b.ID))
	_, err = repo.GetByID(b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(b.ID), ErrNotFound)
}

func TestBindingRepository_GetByEventUnbound(t *testing.T) {
	got, err := newTestStore(t).Bindings().GetByEvent(gesture.Click)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBindingRepository_OnePerEvent(t *testing.T) {
	repo := newTestStore(t).Bindings()

	click := newBinding(gesture.Click)
	require.NoError(t, repo.Create(click))
	assert.ErrorIs(t, repo.Create(newBinding(gesture.Click)), ErrDuplicateEvent)

	nav := newBinding(gesture.ConfirmNavigate)
	require.NoError(t, repo.Create(nav))

	nav.Event = gesture.Click
	assert.ErrorIs(t, repo.Update(nav), ErrDuplicateEvent)

	all, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBindingRepository_DefaultConfig(t *testing.T) {
	repo := newTestStore(t).Bindings()

	b := newBinding(gesture.Click)
	b.Config = nil
	require.NoError(t, repo.Create(b))

	got, err := repo.GetByID(b.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(got.Config))
}

func TestBindingRepository_UpdateMissing(t *testing.T) {
	repo := newTestStore(t).Bindings()
	assert.ErrorIs(t, repo.Update(newBinding(gesture.Click)), ErrNotFound)
}
