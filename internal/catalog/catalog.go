package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/pixil98/simwork/internal/storage"
)

var ErrRoleNotFound = errors.New("role not found")

// Catalog is the read-only set of roles, in display order.
type Catalog struct {
	roles []*Role
	byID  map[string]*Role
}

// New builds a catalog from roles in the given order. Every role must have a
// unique, non-empty ID and pass validation.
func New(roles ...*Role) (*Catalog, error) {
	c := &Catalog{
		byID: make(map[string]*Role, len(roles)),
	}

	for _, r := range roles {
		if r.ID == "" {
			return nil, fmt.Errorf("role %q: id is required", r.Title)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("role %q: %w", r.ID, err)
		}
		if _, ok := c.byID[r.ID]; ok {
			return nil, fmt.Errorf("duplicate role id: %s", r.ID)
		}
		c.byID[r.ID] = r
		c.roles = append(c.roles, r)
	}

	return c, nil
}

// FromStore builds a catalog from loaded role assets, ordered by title.
func FromStore(st storage.Storer[*Role]) (*Catalog, error) {
	var roles []*Role
	for id, r := range st.GetAll() {
		r.ID = id.String()
		roles = append(roles, r)
	}
	slices.SortFunc(roles, func(a, b *Role) int {
		if c := strings.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return New(roles...)
}

// Load reads role assets from path. An empty path yields the builtin roles.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Builtin(), nil
	}

	st, err := storage.NewFileStore[*Role](path)
	if err != nil {
		return nil, fmt.Errorf("loading roles from %q: %w", path, err)
	}

	c, err := FromStore(st)
	if err != nil {
		return nil, err
	}
	if len(c.roles) == 0 {
		return nil, fmt.Errorf("no roles found in %q", path)
	}
	return c, nil
}

// Role returns the role with the given id, or nil.
func (c *Catalog) Role(id string) *Role {
	return c.byID[id]
}

// Lookup is Role with an error for callers that need one.
func (c *Catalog) Lookup(id string) (*Role, error) {
	r := c.byID[id]
	if r == nil {
		return nil, fmt.Errorf("%w: %q", ErrRoleNotFound, id)
	}
	return r, nil
}

// Roles returns every role in display order.
func (c *Catalog) Roles() []*Role {
	return slices.Clone(c.roles)
}

// IDs returns every role id in display order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.roles))
	for i, r := range c.roles {
		ids[i] = r.ID
	}
	return ids
}
