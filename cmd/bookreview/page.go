package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SuwethaV/bookreview/internal/client/state"
)

func newPageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "page <name>",
		Short: "Open a page by name: home, login, signup, add-book, profile, edit-book-<id>, book-details-<id>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.openPage(cmd.Context(), args[0])
		},
	}
}

// openPage navigates to page. Unknown names land on home.
func (a *app) openPage(ctx context.Context, page string) error {
	route := state.ParsePage(page)
	a.store.SetCurrentPage(route.Page())

	switch route.Kind {
	case state.RouteLogin:
		return a.login(ctx, credentials{})
	case state.RouteSignup:
		return a.signup(ctx, credentials{})
	case state.RouteAddBook:
		return a.addBook(ctx, bookFields{})
	case state.RouteProfile:
		return a.showProfile(ctx)
	case state.RouteBookDetails:
		return a.showBook(ctx, route.BookID)
	case state.RouteEditBook:
		if err := a.fetchBook(ctx, route.BookID); err != nil {
			return err
		}
		if err := a.renderBook(route.BookID); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "\nChange it with: bookreview edit %s --title ... --genre ...\n", route.BookID)
		return nil
	default:
		return a.listBooks(ctx, listOptions{genre: state.GenreAll, sortBy: state.SortTitle, page: 1})
	}
}
