// Package state holds the client's view state: the signed-in session, the
// cached books and reviews, the current page and the listing filters.
package state

import (
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/SuwethaV/bookreview/internal/client/api"
)

const (
	GenreAll     = "All"
	BooksPerPage = 6
)

// Listing sort keys. Anything else keeps the cached order.
const (
	SortTitle  = "title"
	SortAuthor = "author"
	SortYear   = "year"
	SortRating = "rating"
)

// Store is safe for concurrent use. Subscribers run after every mutation,
// outside the lock.
type Store struct {
	mu sync.RWMutex

	user         *api.User
	token        string
	refreshToken string

	books   []api.Book
	reviews []api.Review

	currentPage   string
	searchQuery   string
	selectedGenre string
	sortBy        string

	subs   map[int]func()
	nextID int
}

func NewStore() *Store {
	return &Store{
		currentPage:   PageHome,
		selectedGenre: GenreAll,
		sortBy:        SortTitle,
		subs:          make(map[int]func()),
	}
}

// Subscribe registers fn and returns a func that removes it.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// update runs fn under the write lock, then notifies subscribers.
func (s *Store) update(fn func()) {
	s.mu.Lock()
	fn()
	subs := make([]func(), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub()
	}
}

// ========== session ==========

func (s *Store) Login(sess api.Session) {
	s.setSession(sess)
}

func (s *Store) Signup(sess api.Session) {
	s.setSession(sess)
}

func (s *Store) setSession(sess api.Session) {
	s.update(func() {
		u := sess.User
		s.user = &u
		s.token = sess.AccessToken
		s.refreshToken = sess.RefreshToken
		s.currentPage = PageHome
	})
}

// Logout drops the session and resets the listing filters.
func (s *Store) Logout() {
	s.update(func() {
		s.user = nil
		s.token = ""
		s.refreshToken = ""
		s.currentPage = PageHome
		s.searchQuery = ""
		s.selectedGenre = GenreAll
	})
}

// SetToken swaps the access token after a refresh.
func (s *Store) SetToken(token string) {
	s.update(func() { s.token = token })
}

func (s *Store) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// ========== books and reviews ==========

func (s *Store) SetBooks(books []api.Book) {
	s.update(func() { s.books = append([]api.Book(nil), books...) })
}

// UpsertBook replaces the cached book with the same ID, or prepends it.
func (s *Store) UpsertBook(b api.Book) {
	s.update(func() {
		for i := range s.books {
			if s.books[i].ID == b.ID {
				s.books[i] = b
				return
			}
		}
		s.books = append([]api.Book{b}, s.books...)
	})
}

// RemoveBook drops the book and every cached review of it.
func (s *Store) RemoveBook(id string) {
	s.update(func() {
		books := s.books[:0]
		for _, b := range s.books {
			if b.ID != id {
				books = append(books, b)
			}
		}
		s.books = books

		reviews := s.reviews[:0]
		for _, r := range s.reviews {
			if r.BookID != id {
				reviews = append(reviews, r)
			}
		}
		s.reviews = reviews
	})
}

// SetBookReviews replaces the cached reviews of one book.
func (s *Store) SetBookReviews(bookID string, reviews []api.Review) {
	s.update(func() {
		kept := make([]api.Review, 0, len(s.reviews)+len(reviews))
		kept = append(kept, reviews...)
		for _, r := range s.reviews {
			if r.BookID != bookID {
				kept = append(kept, r)
			}
		}
		s.reviews = kept
	})
}

// AddReview prepends r and recomputes the cached aggregate of its book from
// the cached reviews, rounded to one decimal.
func (s *Store) AddReview(r api.Review) {
	s.update(func() {
		s.reviews = append([]api.Review{r}, s.reviews...)

		var sum, count int
		for _, rv := range s.reviews {
			if rv.BookID == r.BookID {
				sum += rv.Rating
				count++
			}
		}
		for i := range s.books {
			if s.books[i].ID == r.BookID {
				s.books[i].AverageRating = roundTenth(float64(sum) / float64(count))
				s.books[i].ReviewCount = count
			}
		}
	})
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func (s *Store) Books() []api.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.Book(nil), s.books...)
}

// Book returns the cached book with id.
func (s *Store) Book(id string) (api.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.books {
		if b.ID == id {
			return b, true
		}
	}
	return api.Book{}, false
}

// BookReviews returns the cached reviews of one book, newest first.
func (s *Store) BookReviews(bookID string) []api.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []api.Review
	for _, r := range s.reviews {
		if r.BookID == bookID {
			out = append(out, r)
		}
	}
	return out
}

// ========== navigation and filters ==========

func (s *Store) SetCurrentPage(page string) {
	s.update(func() { s.currentPage = page })
}

func (s *Store) SetSearchQuery(q string) {
	s.update(func() { s.searchQuery = q })
}

func (s *Store) SetSelectedGenre(genre string) {
	s.update(func() { s.selectedGenre = genre })
}

func (s *Store) SetSortBy(sortBy string) {
	s.update(func() { s.sortBy = sortBy })
}

func (s *Store) CurrentPage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentPage
}

func (s *Store) Route() Route {
	return ParsePage(s.CurrentPage())
}

func (s *Store) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchQuery
}

func (s *Store) SelectedGenre() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedGenre
}

func (s *Store) SortBy() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortBy
}

// Genres is "All" followed by each cached genre in order of first appearance.
func (s *Store) Genres() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []string{GenreAll}
	seen := map[string]bool{}
	for _, b := range s.books {
		if seen[b.Genre] {
			continue
		}
		seen[b.Genre] = true
		out = append(out, b.Genre)
	}
	return out
}

// FilteredBooks applies the search query, genre and sort to the cached books.
// The search matches title or author, case-insensitively. Sorting is stable.
func (s *Store) FilteredBooks() []api.Book {
	s.mu.RLock()
	query := strings.ToLower(s.searchQuery)
	genre := s.selectedGenre
	sortBy := s.sortBy
	out := make([]api.Book, 0, len(s.books))
	for _, b := range s.books {
		if query != "" &&
			!strings.Contains(strings.ToLower(b.Title), query) &&
			!strings.Contains(strings.ToLower(b.Author), query) {
			continue
		}
		if genre != GenreAll && b.Genre != genre {
			continue
		}
		out = append(out, b)
	}
	s.mu.RUnlock()

	switch sortBy {
	case SortTitle:
		sort.SliceStable(out, func(i, j int) bool { return lessText(out[i].Title, out[j].Title) })
	case SortAuthor:
		sort.SliceStable(out, func(i, j int) bool { return lessText(out[i].Author, out[j].Author) })
	case SortYear:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].AverageRating > out[j].AverageRating })
	}
	return out
}

// lessText orders case-insensitively, breaking ties on the raw text.
func lessText(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

// Paginate returns the 1-based page of books. Pages outside the range are empty.
func Paginate(books []api.Book, page int) []api.Book {
	start := (page - 1) * BooksPerPage
	if page < 1 || start >= len(books) {
		return []api.Book{}
	}
	end := start + BooksPerPage
	if end > len(books) {
		end = len(books)
	}
	return books[start:end]
}

// TotalPages is the number of listing pages for n books.
func TotalPages(n int) int {
	return (n + BooksPerPage - 1) / BooksPerPage
}

// ========== profile ==========

// UserBooks are the cached books the signed-in user added.
func (s *Store) UserBooks() []api.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	var out []api.Book
	for _, b := range s.books {
		if b.CreatedBy == s.user.ID {
			out = append(out, b)
		}
	}
	return out
}

// UserReviews are the cached reviews the signed-in user wrote.
func (s *Store) UserReviews() []api.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	var out []api.Review
	for _, r := range s.reviews {
		if r.UserID == s.user.ID {
			out = append(out, r)
		}
	}
	return out
}

// AverageGivenRating is the mean rating over UserReviews, 0 when there are none.
func (s *Store) AverageGivenRating() float64 {
	reviews := s.UserReviews()
	if len(reviews) == 0 {
		return 0
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
