// Package settings holds the in-process copy of the persisted bot settings.
//
// State is loaded once at startup and written through to the repository on every
// change. Readers get copies, so callers never share the underlying set.
package settings

import (
	"dropletbot/internal/domain"
	"encoding/json"
	"fmt"
	"sync"
)

type State struct {
	repo    domain.SettingsRepository
	mu      sync.RWMutex
	current domain.Settings
}

func Load(repo domain.SettingsRepository) (*State, error) {
	current, err := repo.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("error loading settings: %w", err)
	}
	if current.AuthorizedRoles == nil {
		current.AuthorizedRoles = domain.NewRoleSet()
	}
	return &State{repo: repo, current: current}, nil
}

func (s *State) AuthorizedRoles() domain.RoleSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.AuthorizedRoles.Clone()
}

// SetAuthorizedRoles replaces the whole role set and persists it.
func (s *State) SetAuthorizedRoles(roles domain.RoleSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	next.AuthorizedRoles = roles.Clone()
	if err := s.repo.SaveSettings(next); err != nil {
		return fmt.Errorf("error saving authorized roles: %w", err)
	}
	s.current = next
	return nil
}

func (s *State) Layout() json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.Layout == nil {
		return nil
	}
	return append(json.RawMessage(nil), s.current.Layout...)
}

func (s *State) SetLayout(layout json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	next.Layout = append(json.RawMessage(nil), layout...)
	if err := s.repo.SaveSettings(next); err != nil {
		return fmt.Errorf("error saving panel layout: %w", err)
	}
	s.current = next
	return nil
}
