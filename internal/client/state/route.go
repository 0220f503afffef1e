package state

import "strings"

const (
	PageHome    = "home"
	PageLogin   = "login"
	PageSignup  = "signup"
	PageAddBook = "add-book"
	PageProfile = "profile"

	editBookPrefix    = "edit-book-"
	bookDetailsPrefix = "book-details-"
)

type RouteKind int

const (
	RouteHome RouteKind = iota
	RouteLogin
	RouteSignup
	RouteAddBook
	RouteEditBook
	RouteBookDetails
	RouteProfile
)

func (k RouteKind) String() string {
	switch k {
	case RouteLogin:
		return PageLogin
	case RouteSignup:
		return PageSignup
	case RouteAddBook:
		return PageAddBook
	case RouteEditBook:
		return "edit-book"
	case RouteBookDetails:
		return "book-details"
	case RouteProfile:
		return PageProfile
	default:
		return PageHome
	}
}

// Route is a parsed page name. BookID is set for edit and details pages.
type Route struct {
	Kind   RouteKind
	BookID string
}

// ParsePage maps a page name to its route. Unknown names fall back to home.
func ParsePage(page string) Route {
	switch page {
	case PageHome:
		return Route{Kind: RouteHome}
	case PageLogin:
		return Route{Kind: RouteLogin}
	case PageSignup:
		return Route{Kind: RouteSignup}
	case PageAddBook:
		return Route{Kind: RouteAddBook}
	case PageProfile:
		return Route{Kind: RouteProfile}
	}
	if id := strings.TrimPrefix(page, editBookPrefix); id != page && id != "" {
		return Route{Kind: RouteEditBook, BookID: id}
	}
	if id := strings.TrimPrefix(page, bookDetailsPrefix); id != page && id != "" {
		return Route{Kind: RouteBookDetails, BookID: id}
	}
	return Route{Kind: RouteHome}
}

// Page is the inverse of ParsePage.
func (r Route) Page() string {
	switch r.Kind {
	case RouteEditBook:
		return editBookPrefix + r.BookID
	case RouteBookDetails:
		return bookDetailsPrefix + r.BookID
	default:
		return r.Kind.String()
	}
}

// ShowsChrome reports whether the navigation bar and footer are drawn.
// The auth pages render bare.
func (r Route) ShowsChrome() bool {
	return r.Kind != RouteLogin && r.Kind != RouteSignup
}

func EditBookPage(id string) string {
	return editBookPrefix + id
}

func BookDetailsPage(id string) string {
	return bookDetailsPrefix + id
}
