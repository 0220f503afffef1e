// Package view renders client pages as plain text.
package view

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/SuwethaV/bookreview/internal/client/api"
	"github.com/SuwethaV/bookreview/internal/client/state"
)

const (
	starFull  = "★"
	starHalf  = "⯪"
	starEmpty = "☆"

	dateLayout = "2006-01-02"
)

// Stars draws five stars for rating: star i is full below floor(rating),
// half below rating, empty otherwise.
func Stars(rating float64) string {
	full := math.Floor(rating)
	var b strings.Builder
	for i := 0; i < 5; i++ {
		switch fi := float64(i); {
		case fi < full:
			b.WriteString(starFull)
		case fi < rating:
			b.WriteString(starHalf)
		default:
			b.WriteString(starEmpty)
		}
	}
	return b.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Header is the navigation line drawn above every page that shows chrome.
func Header(w io.Writer, route state.Route, user *api.User) {
	if !route.ShowsChrome() {
		return
	}
	who := "guest (login | signup)"
	if user != nil {
		who = user.Name + " (profile | add | logout)"
	}
	fmt.Fprintf(w, "BookReview  [%s]  %s\n", route.Kind, who)
	fmt.Fprintln(w, strings.Repeat("-", 60))
}

func Footer(w io.Writer, route state.Route) {
	if !route.ShowsChrome() {
		return
	}
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintln(w, "Discover, rate and review books.")
}

// Listing is the home page: filters, one page of books and the pager.
type Listing struct {
	Books      []api.Book
	Page       int
	TotalPages int
	Total      int
	Query      string
	Genre      string
	SortBy     string
	Genres     []string
}

func RenderListing(w io.Writer, l Listing) error {
	fmt.Fprintf(w, "Search: %q  Genre: %s  Sort: %s\n", l.Query, l.Genre, l.SortBy)
	if len(l.Genres) > 0 {
		fmt.Fprintf(w, "Genres: %s\n", strings.Join(l.Genres, ", "))
	}
	fmt.Fprintln(w)

	if len(l.Books) == 0 {
		fmt.Fprintln(w, "No books found. Try adjusting your search or filters.")
		return nil
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tGENRE\tYEAR\tRATING")
	for _, b := range l.Books {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s %.1f (%d)\n",
			b.ID, b.Title, b.Author, b.Genre, b.Year, Stars(b.AverageRating), b.AverageRating, b.ReviewCount)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nPage %d of %d (%s)\n", l.Page, l.TotalPages, plural(l.Total, "book"))
	return nil
}

// RatingDistribution counts reviews per star value, index 1..5.
func RatingDistribution(reviews []api.Review) [6]int {
	var dist [6]int
	for _, r := range reviews {
		if r.Rating >= 1 && r.Rating <= 5 {
			dist[r.Rating]++
		}
	}
	return dist
}

// RenderBookDetails shows one book, its rating breakdown and its reviews.
func RenderBookDetails(w io.Writer, b api.Book, reviews []api.Review) error {
	fmt.Fprintf(w, "%s (%d)\nby %s\n", b.Title, b.Year, b.Author)
	if b.Genre != "" {
		fmt.Fprintf(w, "Genre: %s\n", b.Genre)
	}
	if b.CoverImage != "" {
		fmt.Fprintf(w, "Cover: %s\n", b.CoverImage)
	}
	fmt.Fprintf(w, "%s %.1f (%s)\n", Stars(b.AverageRating), b.AverageRating, plural(b.ReviewCount, "review"))
	if b.Description != "" {
		fmt.Fprintf(w, "\n%s\n", b.Description)
	}

	dist := RatingDistribution(reviews)
	fmt.Fprintln(w)
	for rating := 5; rating >= 1; rating-- {
		pct := 0.0
		if b.ReviewCount > 0 {
			pct = float64(dist[rating]) / float64(b.ReviewCount) * 100
		}
		bar := strings.Repeat("#", int(pct/10))
		fmt.Fprintf(w, "%d %s %-10s %d\n", rating, starFull, bar, dist[rating])
	}

	fmt.Fprintln(w, "\nReviews")
	if len(reviews) == 0 {
		fmt.Fprintln(w, "No reviews yet. Be the first to share your thoughts.")
		return nil
	}
	tw := newTable(w)
	for _, r := range reviews {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.UserName, Stars(float64(r.Rating)), r.CreatedAt.Format(dateLayout), r.Comment)
	}
	return tw.Flush()
}

// Profile is what the profile page shows.
type Profile struct {
	User          api.User
	Books         []api.Book
	Reviews       []api.Review
	AverageRating float64
}

func RenderProfile(w io.Writer, p Profile) error {
	fmt.Fprintf(w, "%s\n%s\n\n", p.User.Name, p.User.Email)
	fmt.Fprintf(w, "Books Added: %d  Reviews Written: %d  Avg Rating Given: %.1f\n",
		len(p.Books), len(p.Reviews), p.AverageRating)

	fmt.Fprintln(w, "\nMy Books")
	if len(p.Books) == 0 {
		fmt.Fprintln(w, "No books added yet.")
	} else {
		tw := newTable(w)
		for _, b := range p.Books {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s %.1f (%d)\n", b.ID, b.Title, b.Author, Stars(b.AverageRating), b.AverageRating, b.ReviewCount)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, "\nMy Reviews")
	if len(p.Reviews) == 0 {
		fmt.Fprintln(w, "No reviews written yet.")
		return nil
	}
	tw := newTable(w)
	for _, r := range p.Reviews {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.BookID, Stars(float64(r.Rating)), r.CreatedAt.Format(dateLayout), r.Comment)
	}
	return tw.Flush()
}
