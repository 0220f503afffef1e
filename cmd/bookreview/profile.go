package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/SuwethaV/bookreview/internal/client/api"
	"github.com/SuwethaV/bookreview/internal/client/state"
	"github.com/SuwethaV/bookreview/internal/client/view"
)

func newProfileCmd(a *app) *cobra.Command {
	var name, avatar string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your books and reviews; --name/--avatar update the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("name") || cmd.Flags().Changed("avatar") {
				if err := a.updateProfile(cmd.Context(), name, avatar); err != nil {
					return err
				}
			}
			return a.showProfile(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "new avatar URL")
	return cmd
}

// showProfile pulls the caller's books and reviews into the store and
// renders the profile from it.
func (a *app) showProfile(ctx context.Context) error {
	var p *api.Profile
	err := a.authed(ctx, func() error {
		var err error
		p, err = a.client.Profile(ctx)
		return err
	})
	if err != nil {
		return err
	}

	a.store.SetCurrentPage(state.PageProfile)
	for _, b := range p.Books {
		a.store.UpsertBook(b)
	}
	byBook := map[string][]api.Review{}
	var order []string
	for _, r := range p.Reviews {
		if _, ok := byBook[r.BookID]; !ok {
			order = append(order, r.BookID)
		}
		byBook[r.BookID] = append(byBook[r.BookID], r)
	}
	for _, id := range order {
		a.store.SetBookReviews(id, byBook[id])
	}

	return a.render(func(w io.Writer) error {
		return view.RenderProfile(w, view.Profile{
			User:          p.User,
			Books:         a.store.UserBooks(),
			Reviews:       a.store.UserReviews(),
			AverageRating: a.store.AverageGivenRating(),
		})
	})
}

func (a *app) updateProfile(ctx context.Context, name, avatar string) error {
	current := a.store.User()
	if current == nil {
		return errNotLoggedIn
	}
	if name == "" {
		name = current.Name
	}
	if avatar == "" {
		avatar = current.Avatar
	}

	var u *api.User
	err := a.authed(ctx, func() error {
		var err error
		u, err = a.client.UpdateProfile(ctx, name, avatar)
		return err
	})
	if err != nil {
		return err
	}

	a.store.Login(api.Session{User: *u, AccessToken: a.store.Token(), RefreshToken: a.store.RefreshToken()})
	fmt.Fprintf(a.out, "Profile updated.\n\n")
	return nil
}
