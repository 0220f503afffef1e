package dto

// AddReviewRequest is the body of POST /api/v1/reviews.
// Rating and comment rules are enforced by the review domain so that
// violations carry their own error codes.
type AddReviewRequest struct {
	BookID  string `json:"book_id" binding:"required" example:"65f1c0a2e4b0a1b2c3d4e5f6"`
	Rating  int    `json:"rating" example:"5"`
	Comment string `json:"comment" example:"Could not put it down."`
}
