package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/SuwethaV/bookreview/internal/client/api"
	"github.com/SuwethaV/bookreview/internal/client/state"
	"github.com/SuwethaV/bookreview/internal/client/view"
)

type listOptions struct {
	search string
	genre  string
	sortBy string
	page   int
}

func newBooksCmd(a *app) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:     "books",
		Aliases: []string{"home", "ls"},
		Short:   "List books, six per page",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listBooks(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.search, "search", "s", "", "match title or author")
	f.StringVarP(&opts.genre, "genre", "g", state.GenreAll, "genre filter")
	f.StringVar(&opts.sortBy, "sort", state.SortTitle, "title | author | year | rating")
	f.IntVarP(&opts.page, "page", "p", 1, "page number")
	return cmd
}

// listBooks fetches the catalogue and filters, sorts and pages it locally.
func (a *app) listBooks(ctx context.Context, opts listOptions) error {
	books, err := a.client.AllBooks(ctx, api.ListQuery{})
	if err != nil {
		return err
	}
	a.store.SetBooks(books)
	a.store.SetSearchQuery(opts.search)
	a.store.SetSelectedGenre(opts.genre)
	a.store.SetSortBy(opts.sortBy)
	a.store.SetCurrentPage(state.PageHome)

	filtered := a.store.FilteredBooks()
	return a.render(func(w io.Writer) error {
		return view.RenderListing(w, view.Listing{
			Books:      state.Paginate(filtered, opts.page),
			Page:       opts.page,
			TotalPages: state.TotalPages(len(filtered)),
			Total:      len(filtered),
			Query:      a.store.SearchQuery(),
			Genre:      a.store.SelectedGenre(),
			SortBy:     a.store.SortBy(),
			Genres:     a.store.Genres(),
		})
	})
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <book-id>",
		Short: "Show a book and its reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showBook(cmd.Context(), args[0])
		},
	}
}

// fetchBook refreshes the cached book and its reviews.
func (a *app) fetchBook(ctx context.Context, id string) error {
	detail, err := a.client.GetBook(ctx, id)
	if err != nil {
		return err
	}
	a.store.UpsertBook(detail.Book)
	a.store.SetBookReviews(id, detail.Reviews)
	return nil
}

func (a *app) showBook(ctx context.Context, id string) error {
	if err := a.fetchBook(ctx, id); err != nil {
		return err
	}
	a.store.SetCurrentPage(state.BookDetailsPage(id))
	return a.renderBook(id)
}

func (a *app) renderBook(id string) error {
	b, ok := a.store.Book(id)
	if !ok {
		return fmt.Errorf("book %s is not loaded", id)
	}
	return a.render(func(w io.Writer) error {
		return view.RenderBookDetails(w, b, a.store.BookReviews(id))
	})
}

type bookFields struct {
	title       string
	author      string
	description string
	cover       string
	genre       string
	year        int
}

func bindBookFlags(cmd *cobra.Command, f *bookFields) {
	cmd.Flags().StringVar(&f.title, "title", "", "title")
	cmd.Flags().StringVar(&f.author, "author", "", "author")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.cover, "cover", "", "cover image URL")
	cmd.Flags().StringVar(&f.genre, "genre", "", "genre")
	cmd.Flags().IntVar(&f.year, "year", 0, "publication year")
}

func newAddCmd(a *app) *cobra.Command {
	var f bookFields
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book; missing title or author is prompted for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.addBook(cmd.Context(), f)
		},
	}
	bindBookFlags(cmd, &f)
	return cmd
}

func (a *app) addBook(ctx context.Context, f bookFields) error {
	if a.store.User() == nil {
		return errNotLoggedIn
	}
	a.store.SetCurrentPage(state.PageAddBook)
	if err := a.promptIfEmpty(&f.title, "Title: "); err != nil {
		return err
	}
	if err := a.promptIfEmpty(&f.author, "Author: "); err != nil {
		return err
	}
	if f.title == "" || f.author == "" {
		return errors.New("title and author are required")
	}

	var created *api.Book
	err := a.authed(ctx, func() error {
		var err error
		created, err = a.client.CreateBook(ctx, api.BookInput{
			Title:       f.title,
			Author:      f.author,
			Description: f.description,
			CoverImage:  f.cover,
			Genre:       f.genre,
			Year:        f.year,
		})
		return err
	})
	if err != nil {
		return err
	}

	a.store.UpsertBook(*created)
	a.store.SetCurrentPage(state.PageHome)
	fmt.Fprintf(a.out, "Added %q (id %s).\n", created.Title, created.ID)
	return nil
}

func newEditCmd(a *app) *cobra.Command {
	var f bookFields
	cmd := &cobra.Command{
		Use:   "edit <book-id>",
		Short: "Change a book you added; only the given flags are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch api.BookPatch
			changed := cmd.Flags().Changed
			if changed("title") {
				patch.Title = &f.title
			}
			if changed("author") {
				patch.Author = &f.author
			}
			if changed("description") {
				patch.Description = &f.description
			}
			if changed("cover") {
				patch.CoverImage = &f.cover
			}
			if changed("genre") {
				patch.Genre = &f.genre
			}
			if changed("year") {
				patch.Year = &f.year
			}
			return a.editBook(cmd.Context(), args[0], patch)
		},
	}
	bindBookFlags(cmd, &f)
	return cmd
}

func (a *app) editBook(ctx context.Context, id string, patch api.BookPatch) error {
	a.store.SetCurrentPage(state.EditBookPage(id))
	if patch == (api.BookPatch{}) {
		return errors.New("nothing to change: pass at least one of --title --author --description --cover --genre --year")
	}

	var updated *api.Book
	err := a.authed(ctx, func() error {
		var err error
		updated, err = a.client.UpdateBook(ctx, id, patch)
		return err
	})
	if err != nil {
		return err
	}

	a.store.UpsertBook(*updated)
	a.store.SetCurrentPage(state.BookDetailsPage(id))
	fmt.Fprintf(a.out, "Updated %q.\n", updated.Title)
	return nil
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <book-id>",
		Short: "Delete a book you added, with its reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.deleteBook(cmd.Context(), args[0], yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}

func (a *app) deleteBook(ctx context.Context, id string, yes bool) error {
	if a.store.User() == nil {
		return errNotLoggedIn
	}
	if !yes {
		ok, err := a.confirm("Are you sure you want to delete this book?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Cancelled.")
			return nil
		}
	}

	if err := a.authed(ctx, func() error { return a.client.DeleteBook(ctx, id) }); err != nil {
		return err
	}
	a.store.RemoveBook(id)
	a.store.SetCurrentPage(state.PageHome)
	fmt.Fprintf(a.out, "Deleted book %s.\n", id)
	return nil
}

func parseRating(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 5 {
		return 0, fmt.Errorf("rating must be a whole number from 1 to 5, got %q", s)
	}
	return n, nil
}
