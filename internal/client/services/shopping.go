package services

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gmkitchen/internal/notebook"
)

// ShoppingListKey holds the shopping list. It is never synced.
const ShoppingListKey = "gmk_shopping_list_v1"

// ShoppingList is the device-local list of names flagged "need more".
// Names compare case-insensitively.
type ShoppingList struct {
	mu    sync.Mutex
	store KV
}

func NewShoppingList(store KV) *ShoppingList {
	return &ShoppingList{store: store}
}

// Toggle adds name when it is absent and removes it otherwise. It reports
// whether name is on the list afterwards.
func (s *ShoppingList) Toggle(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return false, notebook.ErrEmptyName
	}

	names, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	if idx := indexOf(names, name); idx >= 0 {
		return false, s.save(ctx, slices.Delete(names, idx, idx+1))
	}
	return true, s.save(ctx, append(names, name))
}

// Remove drops name from the list. Removing an absent name is not an error.
func (s *ShoppingList) Remove(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.load(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(names, strings.TrimSpace(name))
	if idx < 0 {
		return nil
	}
	return s.save(ctx, slices.Delete(names, idx, idx+1))
}

// Contains reports whether name is on the list.
func (s *ShoppingList) Contains(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(names, strings.TrimSpace(name)) >= 0, nil
}

// List returns the names in alphabetical order, ignoring case.
func (s *ShoppingList) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(names, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return names, nil
}

// load treats a missing or unreadable list as empty.
func (s *ShoppingList) load(ctx context.Context) ([]string, error) {
	raw, err := s.store.Get(ctx, ShoppingListKey)
	if err != nil {
		return nil, err
	}
	var names []string
	if len(raw) == 0 || json.Unmarshal(raw, &names) != nil {
		return []string{}, nil
	}
	return names, nil
}

func (s *ShoppingList) save(ctx context.Context, names []string) error {
	if names == nil {
		names = []string{}
	}
	b, err := json.Marshal(names)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, ShoppingListKey, b)
}

func indexOf(names []string, name string) int {
	return slices.IndexFunc(names, func(n string) bool { return strings.EqualFold(n, name) })
}
