package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/SuwethaV/bookreview/internal/client/api"
	"github.com/SuwethaV/bookreview/internal/client/state"
)

func newReviewCmd(a *app) *cobra.Command {
	var (
		rating  int
		comment string
	)
	cmd := &cobra.Command{
		Use:   "review <book-id>",
		Short: "Rate a book from 1 to 5 stars and leave a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.addReview(cmd.Context(), args[0], rating, comment)
		},
	}
	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "stars, 1-5")
	cmd.Flags().StringVarP(&comment, "comment", "c", "", "review text")
	return cmd
}

func (a *app) addReview(ctx context.Context, bookID string, rating int, comment string) error {
	if a.store.User() == nil {
		return errNotLoggedIn
	}
	if rating == 0 {
		s, err := a.prompt("Rating (1-5): ")
		if err != nil {
			return err
		}
		if rating, err = parseRating(s); err != nil {
			return err
		}
	} else if _, err := parseRating(strconv.Itoa(rating)); err != nil {
		return err
	}
	if err := a.promptIfEmpty(&comment, "Comment: "); err != nil {
		return err
	}

	// the local aggregate is recomputed over the cached reviews, so load them first
	if err := a.fetchBook(ctx, bookID); err != nil {
		return err
	}

	var res *api.ReviewResult
	err := a.authed(ctx, func() error {
		var err error
		res, err = a.client.AddReview(ctx, bookID, rating, comment)
		return err
	})
	if err != nil {
		return err
	}

	a.store.AddReview(res.Review)
	a.store.SetCurrentPage(state.BookDetailsPage(bookID))
	fmt.Fprintf(a.out, "Thanks for your review! %s now averages %.1f over %d reviews.\n\n",
		bookID, res.Book.AverageRating, res.Book.ReviewCount)
	return a.renderBook(bookID)
}
