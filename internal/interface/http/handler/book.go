package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/SuwethaV/bookreview/internal/application/book"
	"github.com/SuwethaV/bookreview/internal/interface/http/dto"
	"github.com/SuwethaV/bookreview/internal/interface/http/middleware"
	"github.com/SuwethaV/bookreview/pkg/response"
)

// BookHandler serves /api/v1/books.
type BookHandler struct {
	createUseCase *appbook.CreateBookUseCase
	listUseCase   *appbook.ListBooksUseCase
	getUseCase    *appbook.GetBookUseCase
	updateUseCase *appbook.UpdateBookUseCase
	deleteUseCase *appbook.DeleteBookUseCase
}

func NewBookHandler(
	createUseCase *appbook.CreateBookUseCase,
	listUseCase *appbook.ListBooksUseCase,
	getUseCase *appbook.GetBookUseCase,
	updateUseCase *appbook.UpdateBookUseCase,
	deleteUseCase *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		createUseCase: createUseCase,
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// CreateBook adds a book owned by the caller.
// @Summary      Add a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookRequest true "book"
// @Success      201 {object} response.Response{data=appbook.BookDTO}
// @Failure      400 {object} response.Response "invalid parameters"
// @Failure      401 {object} response.Response "not logged in"
// @Router       /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		UserID:      middleware.MustGetUserID(c),
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Genre:       req.Genre,
		Year:        req.Year,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListBooks pages through the catalog.
// @Summary      List books
// @Tags         books
// @Produce      json
// @Param        page      query int    false "page, 1-based"             default(1)
// @Param        page_size query int    false "page size, at most 50"     default(5)
// @Param        keyword   query string false "title or author substring"
// @Param        genre     query string false "genre, All for every genre"
// @Param        sort_by   query string false "title | author | year | rating | newest" default(title)
// @Success      200 {object} response.Response{data=appbook.ListBooksResponse}
// @Failure      400 {object} response.Response "invalid parameters"
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		Genre:    req.Genre,
		SortBy:   req.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBook returns a book and its reviews.
// @Summary      Book details
// @Tags         books
// @Produce      json
// @Param        id path string true "book id"
// @Success      200 {object} response.Response{data=appbook.BookDetail}
// @Failure      404 {object} response.Response "book not found"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	result, err := h.getUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateBook edits a book the caller owns.
// @Summary      Edit a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                true "book id"
// @Param        request body dto.UpdateBookRequest true "fields to change"
// @Success      200 {object} response.Response{data=appbook.BookDTO}
// @Failure      400 {object} response.Response "invalid parameters"
// @Failure      403 {object} response.Response "not the owner"
// @Failure      404 {object} response.Response "book not found"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ID:          c.Param("id"),
		UserID:      middleware.MustGetUserID(c),
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Genre:       req.Genre,
		Year:        req.Year,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteBook removes a book the caller owns, with its reviews.
// @Summary      Delete a book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "book id"
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response "not the owner"
// @Failure      404 {object} response.Response "book not found"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	if err := h.deleteUseCase.Execute(c.Request.Context(), c.Param("id"), middleware.MustGetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
