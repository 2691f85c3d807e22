package catalog

import "fmt"

type location struct {
	category Category
	index    int
}

// Store holds one ordered collection per category. Collections are kept newest-first:
// Add prepends. The category order given to NewStore fixes the order of All.
type Store struct {
	order       []Category
	collections map[Category][]Item
	index       map[Key][]location
}

// NewStore creates an empty store whose collections are concatenated in the given order.
func NewStore(order ...Category) *Store {
	s := &Store{
		order:       append([]Category(nil), order...),
		collections: make(map[Category][]Item, len(order)),
		index:       map[Key][]location{},
	}
	for _, category := range order {
		s.collections[category] = nil
	}
	return s
}

// Categories returns the store order.
func (s *Store) Categories() []Category {
	return append([]Category(nil), s.order...)
}

func (s *Store) has(category Category) bool {
	_, ok := s.collections[category]
	return ok
}

// Add prepends item to the collection for category.
func (s *Store) Add(category Category, item Item) error {
	if !s.has(category) {
		return fmt.Errorf("unknown category %q", category)
	}
	for _, locs := range s.index {
		for i := range locs {
			if locs[i].category == category {
				locs[i].index++
			}
		}
	}
	if item.Category == "" {
		item.Category = category
	}
	s.collections[category] = append([]Item{item}, s.collections[category]...)
	key := item.Key()
	s.index[key] = append(s.index[key], location{category: category, index: 0})
	return nil
}

// Load appends items to a collection in the given order. It is meant for seeding, where
// the source order is already newest-first.
func (s *Store) Load(category Category, items []Item) error {
	if !s.has(category) {
		return fmt.Errorf("unknown category %q", category)
	}
	for _, item := range items {
		if item.Category == "" {
			item.Category = category
		}
		idx := len(s.collections[category])
		s.collections[category] = append(s.collections[category], item)
		key := item.Key()
		s.index[key] = append(s.index[key], location{category: category, index: idx})
	}
	return nil
}

// Items returns a copy of one collection.
func (s *Store) Items(category Category) []Item {
	return append([]Item(nil), s.collections[category]...)
}

// All concatenates every collection in store order.
func (s *Store) All() []Item {
	return s.Union(s.order...)
}

// Union concatenates the named collections in the order given.
func (s *Store) Union(categories ...Category) []Item {
	var out []Item
	for _, category := range categories {
		out = append(out, s.collections[category]...)
	}
	return out
}

// Lookup returns the first copy of the item with key, in store order.
func (s *Store) Lookup(key Key) (Item, bool) {
	for _, category := range s.order {
		for _, loc := range s.index[key] {
			if loc.category == category {
				return s.collections[loc.category][loc.index], true
			}
		}
	}
	return Item{}, false
}

// Count returns how many copies of key the store holds.
func (s *Store) Count(key Key) int {
	return len(s.index[key])
}

// Len returns the number of items across all collections.
func (s *Store) Len() int {
	total := 0
	for _, items := range s.collections {
		total += len(items)
	}
	return total
}
