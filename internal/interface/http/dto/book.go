package dto

// CreateBookRequest is the body of POST /api/v1/books.
type CreateBookRequest struct {
	Title       string `json:"title" binding:"required,max=200" example:"Dune"`
	Author      string `json:"author" binding:"required,max=100" example:"Frank Herbert"`
	Description string `json:"description" binding:"max=5000" example:"A desert planet and its spice."`
	CoverImage  string `json:"cover_image" binding:"omitempty,url,max=500" example:"https://example.com/dune.jpg"`
	Genre       string `json:"genre" binding:"max=50" example:"Science Fiction"`
	Year        int    `json:"year" binding:"min=0" example:"1965"`
}

// UpdateBookRequest is the body of PUT /api/v1/books/:id. Omitted fields are unchanged.
// Aggregate rating fields are not accepted.
type UpdateBookRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Author      *string `json:"author" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	CoverImage  *string `json:"cover_image" binding:"omitempty,max=500"`
	Genre       *string `json:"genre" binding:"omitempty,max=50"`
	Year        *int    `json:"year" binding:"omitempty,min=0"`
}

// ListBooksRequest is the query string of GET /api/v1/books.
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1" example:"5"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"dune"`
	Genre    string `form:"genre" binding:"omitempty,max=50" example:"All"`
	SortBy   string `form:"sort_by" example:"title"` // title | author | year | rating | newest
}
