package catalog

// Outcome is a like or star result applied uniformly to every copy of an item.
// Optimistic outcomes come from local guesses, Confirmed ones from the server.
type Outcome interface {
	apply(Item) Item
	// Authoritative reports whether the outcome carries server state.
	Authoritative() bool
}

// OptimisticLike flips the like flag and moves the counter by one.
type OptimisticLike struct{}

func (OptimisticLike) apply(item Item) Item {
	if item.Liked {
		item.Liked = false
		if item.Likes > 0 {
			item.Likes--
		}
		return item
	}
	item.Liked = true
	item.Likes++
	return item
}

func (OptimisticLike) Authoritative() bool { return false }

// ConfirmedLike sets the like state reported by the server.
type ConfirmedLike struct {
	Liked bool
	Likes int
}

func (c ConfirmedLike) apply(item Item) Item {
	item.Liked = c.Liked
	item.Likes = c.Likes
	if item.Likes < 0 {
		item.Likes = 0
	}
	return item
}

func (ConfirmedLike) Authoritative() bool { return true }

// OptimisticStar sets the starred flag the user asked for without server confirmation.
type OptimisticStar struct {
	Starred bool
}

func (o OptimisticStar) apply(item Item) Item {
	item.Starred = o.Starred
	return item
}

func (OptimisticStar) Authoritative() bool { return false }

// ConfirmedStar sets the starred flag the server returned, which may differ from the
// state the user requested.
type ConfirmedStar struct {
	Starred bool
}

func (c ConfirmedStar) apply(item Item) Item {
	item.Starred = c.Starred
	return item
}

func (ConfirmedStar) Authoritative() bool { return true }

// Apply updates every copy of key across all collections and returns the number of
// items touched.
func (s *Store) Apply(key Key, outcome Outcome) int {
	locs := s.index[key]
	for _, loc := range locs {
		items := s.collections[loc.category]
		items[loc.index] = outcome.apply(items[loc.index])
	}
	return len(locs)
}

// ApplyAll applies outcome to the items in a loose slice that match key, in place.
func ApplyAll(items []Item, key Key, outcome Outcome) int {
	touched := 0
	for i := range items {
		if items[i].Key() == key {
			items[i] = outcome.apply(items[i])
			touched++
		}
	}
	return touched
}
