package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// RoleID is a Discord role snowflake.
type RoleID uint64

func ParseRoleID(s string) (RoleID, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid role ID %q", s)
	}
	return RoleID(id), nil
}

func (r RoleID) String() string {
	return strconv.FormatUint(uint64(r), 10)
}

type RoleSet map[RoleID]struct{}

func NewRoleSet(ids ...RoleID) RoleSet {
	set := make(RoleSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// RoleSetFromStrings keeps the IDs that parse and drops the rest.
func RoleSetFromStrings(ids []string) RoleSet {
	set := make(RoleSet, len(ids))
	for _, s := range ids {
		id, err := ParseRoleID(s)
		if err != nil {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

func (s RoleSet) Has(id RoleID) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the IDs in ascending order so persisted records are stable.
func (s RoleSet) Sorted() []RoleID {
	ids := make([]RoleID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s RoleSet) Clone() RoleSet {
	out := make(RoleSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Settings is the whole persisted record.
type Settings struct {
	AuthorizedRoles RoleSet
	Layout          json.RawMessage
}

func DefaultSettings() Settings {
	return Settings{AuthorizedRoles: NewRoleSet()}
}
