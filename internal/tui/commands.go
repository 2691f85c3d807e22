package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/carevo/internal/api"
	"github.com/csheth/carevo/internal/catalog"
	"github.com/csheth/carevo/internal/dashboard"
)

// Client is the part of the notes API the dashboard talks to.
type Client interface {
	Search(ctx context.Context, query string) ([]catalog.Item, error)
	ToggleLike(ctx context.Context, id int) (api.LikeResponse, error)
	ToggleStar(ctx context.Context, id int) (bool, error)
	CreateNote(ctx context.Context, note catalog.Item) (catalog.Item, error)
	GetNote(ctx context.Context, id int) (catalog.Item, error)
}

var errOffline = errors.New("notes API is not configured")

func searchJob(client Client, page int, query string) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		if client == nil {
			return searchResultMsg{page: page, query: query, err: errOffline}, errOffline
		}
		items, err := client.Search(ctx, query)
		return searchResultMsg{page: page, query: query, items: items, err: err}, err
	}
}

func likeJob(client Client, page int, effect dashboard.LikeEffect) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		if client == nil {
			return likeResultMsg{page: page, effect: effect, err: errOffline}, errOffline
		}
		resp, err := client.ToggleLike(ctx, effect.ID)
		result := dashboard.LikeResult{Liked: resp.Liked, Likes: resp.Likes}
		return likeResultMsg{page: page, effect: effect, result: result, err: err}, err
	}
}

func starJob(client Client, page int, effect dashboard.StarEffect) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		if client == nil {
			return starResultMsg{page: page, effect: effect, err: errOffline}, errOffline
		}
		starred, err := client.ToggleStar(ctx, effect.ID)
		return starResultMsg{page: page, effect: effect, starred: starred, err: err}, err
	}
}

func uploadJob(client Client, page int, draft dashboard.Draft) jobRunner {
	note := draft.Item()
	return func(ctx context.Context) (tea.Msg, error) {
		if client == nil {
			return uploadResultMsg{page: page, err: errOffline}, errOffline
		}
		created, err := client.CreateNote(ctx, note)
		return uploadResultMsg{page: page, item: created, err: err}, err
	}
}

func noteJob(client Client, key catalog.Key, id int) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		item, err := client.GetNote(ctx, id)
		return noteResultMsg{key: key, item: item, err: err}, err
	}
}

// runEffect turns a page effect into a job whose payload resolves it.
func (m *model) runEffect(page int, effect dashboard.Effect) tea.Cmd {
	switch e := effect.(type) {
	case dashboard.SearchEffect:
		return m.jobs.Start(jobKindSearch, searchJob(m.config.Client, page, e.Query))
	case dashboard.LikeEffect:
		return m.jobs.Start(jobKindLike, likeJob(m.config.Client, page, e))
	case dashboard.StarEffect:
		return m.jobs.Start(jobKindStar, starJob(m.config.Client, page, e))
	case dashboard.UploadEffect:
		return m.jobs.Start(jobKindUpload, uploadJob(m.config.Client, page, e.Draft))
	default:
		return nil
	}
}

func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{text: text, err: write(text)}
	}
}
