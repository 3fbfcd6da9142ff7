package settings

import (
	"dropletbot/internal/domain"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	saved   domain.Settings
	saves   int
	saveErr error
}

func (m *memoryRepo) LoadSettings() (domain.Settings, error) {
	return m.saved, nil
}

func (m *memoryRepo) SaveSettings(s domain.Settings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.saved = s
	return nil
}

func TestLoadFillsNilRoleSet(t *testing.T) {
	state, err := Load(&memoryRepo{})
	require.NoError(t, err)
	assert.NotNil(t, state.AuthorizedRoles())
	assert.Empty(t, state.AuthorizedRoles())
	assert.Nil(t, state.Layout())
}

func TestSetAuthorizedRolesPersistsAndKeepsLayout(t *testing.T) {
	repo := &memoryRepo{saved: domain.Settings{Layout: json.RawMessage(`{"title":"x"}`)}}
	state, err := Load(repo)
	require.NoError(t, err)

	require.NoError(t, state.SetAuthorizedRoles(domain.NewRoleSet(42)))

	assert.Equal(t, 1, repo.saves)
	assert.True(t, repo.saved.AuthorizedRoles.Has(42))
	assert.JSONEq(t, `{"title":"x"}`, string(repo.saved.Layout))
	assert.True(t, state.AuthorizedRoles().Has(42))
}

func TestSetAuthorizedRolesKeepsMemoryOnSaveFailure(t *testing.T) {
	repo := &memoryRepo{saved: domain.Settings{AuthorizedRoles: domain.NewRoleSet(1)}}
	state, err := Load(repo)
	require.NoError(t, err)

	repo.saveErr = errors.New("disk full")
	err = state.SetAuthorizedRoles(domain.NewRoleSet(2))
	require.Error(t, err)
	assert.True(t, state.AuthorizedRoles().Has(1))
	assert.False(t, state.AuthorizedRoles().Has(2))
}

func TestAuthorizedRolesReturnsCopy(t *testing.T) {
	state, err := Load(&memoryRepo{saved: domain.Settings{AuthorizedRoles: domain.NewRoleSet(5)}})
	require.NoError(t, err)

	roles := state.AuthorizedRoles()
	delete(roles, 5)

	assert.True(t, state.AuthorizedRoles().Has(5))
}
