package api

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is what register and login hand back.
type Session struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Description   string    `json:"description"`
	CoverImage    string    `json:"cover_image"`
	Genre         string    `json:"genre"`
	Year          int       `json:"year"`
	CreatedBy     string    `json:"created_by"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Review struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type BookDetail struct {
	Book    Book     `json:"book"`
	Reviews []Review `json:"reviews"`
}

type BookPage struct {
	Books      []Book `json:"books"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}

// ListQuery mirrors the query string of GET /api/v1/books. Zero fields are omitted.
type ListQuery struct {
	Page     int
	PageSize int
	Keyword  string
	Genre    string
	SortBy   string
}

// BookInput is the body of a create. Rating aggregates are server-owned.
type BookInput struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description,omitempty"`
	CoverImage  string `json:"cover_image,omitempty"`
	Genre       string `json:"genre,omitempty"`
	Year        int    `json:"year,omitempty"`
}

// BookPatch is a partial update; nil fields are left alone.
type BookPatch struct {
	Title       *string `json:"title,omitempty"`
	Author      *string `json:"author,omitempty"`
	Description *string `json:"description,omitempty"`
	CoverImage  *string `json:"cover_image,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Year        *int    `json:"year,omitempty"`
}

// BookRating is the book aggregate after a review was added.
type BookRating struct {
	ID            string  `json:"id"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

type ReviewResult struct {
	Review Review     `json:"review"`
	Book   BookRating `json:"book"`
}

type Profile struct {
	User          User     `json:"user"`
	Books         []Book   `json:"books"`
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"average_rating"`
}
