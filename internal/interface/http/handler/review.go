package handler

import (
	"github.com/gin-gonic/gin"

	appreview "github.com/SuwethaV/bookreview/internal/application/review"
	"github.com/SuwethaV/bookreview/internal/interface/http/dto"
	"github.com/SuwethaV/bookreview/internal/interface/http/middleware"
	"github.com/SuwethaV/bookreview/pkg/response"
)

type ReviewHandler struct {
	addReviewUseCase *appreview.AddReviewUseCase
}

func NewReviewHandler(addReviewUseCase *appreview.AddReviewUseCase) *ReviewHandler {
	return &ReviewHandler{addReviewUseCase: addReviewUseCase}
}

// AddReview rates and reviews a book. The response carries the book's new
// average rating and review count.
// @Summary      Review a book
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddReviewRequest true "review"
// @Success      201 {object} response.Response{data=appreview.AddReviewResponse}
// @Failure      400 {object} response.Response "rating out of range or empty comment"
// @Failure      401 {object} response.Response "not logged in"
// @Failure      404 {object} response.Response "book not found"
// @Router       /api/v1/reviews [post]
func (h *ReviewHandler) AddReview(c *gin.Context) {
	var req dto.AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.addReviewUseCase.Execute(c.Request.Context(), appreview.AddReviewRequest{
		BookID:  req.BookID,
		UserID:  middleware.MustGetUserID(c),
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
