package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/atotto/clipboard"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/csheth/carevo/internal/catalog"
	"github.com/csheth/carevo/internal/tui"
)

func newFindCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find [query]",
		Short: "Fuzzy-find a note and copy its link",
		Long: heredoc.Doc(`
			Pick a note with a fuzzy finder. The chosen note's Drive link (or its title when
			it has none) is printed and copied to the clipboard.
		`),
		Example: heredoc.Doc(`
			carevo find
			carevo find dbms
		`),
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{annotationTerminal: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			items, err := a.findCandidates(cmd.Context(), a.offline(cmd))
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return errors.New("no notes to search")
			}

			options := []fuzzyfinder.Option{
				fuzzyfinder.WithHeader("Pick a note; enter copies its link"),
				fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
					if i == -1 {
						return ""
					}
					out, err := tui.RenderDetail(items[i], w/2-4)
					if err != nil {
						return tui.DetailMarkdown(items[i])
					}
					return out
				}),
			}
			if query != "" {
				options = append(options, fuzzyfinder.WithQuery(query))
			}

			idx, err := fuzzyfinder.Find(items, func(i int) string {
				return findLabel(items[i])
			}, options...)
			if errors.Is(err, fuzzyfinder.ErrAbort) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("select note: %w", err)
			}

			item := items[idx]
			text := item.Link
			if text == "" {
				text = item.Title
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			if err := clipboard.WriteAll(text); err != nil {
				a.logger.Warn("copy to clipboard", zap.Error(err))
			}
			return nil
		},
	}
	cmd.Flags().Bool("offline", false, "only search the bundled sample notes")
	return cmd
}

// findCandidates lists notes from the API followed by the sample notes. API failures are
// logged and the sample notes are used alone.
func (a *app) findCandidates(ctx context.Context, offline bool) ([]catalog.Item, error) {
	seed, err := catalog.SeedNotes()
	if err != nil {
		return nil, err
	}
	local := seed.All()
	if offline {
		return dedupe(local), nil
	}
	remote, err := a.client().ListNotes(ctx, catalog.NoteCategories...)
	if err != nil {
		a.logger.Warn("list notes from API", zap.Error(err))
		return dedupe(local), nil
	}
	return dedupe(append(remote, local...)), nil
}

// dedupe drops repeated copies of an item, keeping the first.
func dedupe(items []catalog.Item) []catalog.Item {
	seen := make(map[catalog.Key]bool, len(items))
	out := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		key := item.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

func findLabel(item catalog.Item) string {
	label := item.Title
	if item.Subtitle != "" {
		label += " · " + item.Subtitle
	}
	if item.Author != "" {
		label += " · " + item.Author
	}
	return label
}
