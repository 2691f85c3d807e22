package dashboard

import "github.com/csheth/carevo/internal/catalog"

// Effect is network work requested by a Page. The caller runs it and hands the result
// to the matching Resolve method.
type Effect interface {
	effect()
}

// SearchEffect asks the server for matches; resolve with Page.ResolveSearch.
type SearchEffect struct {
	Query string
}

// LikeEffect toggles a like on the server; resolve with Page.ResolveLike.
type LikeEffect struct {
	Key catalog.Key
	ID  int
}

// StarEffect sets a star on the server; resolve with Page.ResolveStar.
type StarEffect struct {
	Key     catalog.Key
	ID      int
	Starred bool
}

// UploadEffect creates a note on the server; resolve with Page.ResolveUpload.
type UploadEffect struct {
	Draft Draft
}

func (SearchEffect) effect() {}
func (LikeEffect) effect()   {}
func (StarEffect) effect()   {}
func (UploadEffect) effect() {}

// LikeResult is the server's view of a like after a toggle.
type LikeResult struct {
	Liked bool
	Likes int
}
