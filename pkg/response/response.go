package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	apperrors "github.com/SuwethaV/bookreview/pkg/errors"
)

// Response is the envelope every API endpoint returns.
// Code 0 means success; any other value is a business error code.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created writes a 201 with the created resource.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error writes err as an envelope. Non-AppErrors become 50000.
//
//	if err := uc.Execute(ctx, req); err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	// internal causes never leave the process
	if appErr.Err != nil {
		entry := logrus.WithError(appErr.Err).WithField("code", appErr.Code)
		if rid, ok := c.Get("request_id"); ok {
			entry = entry.WithField("request_id", rid)
		}
		entry.Error(appErr.Message)
	}

	c.JSON(appErr.HTTPStatus(), Response{
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}

// ErrorWithCode writes a custom code and message.
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(apperrors.New(code, message).HTTPStatus(), Response{
		Code:    code,
		Message: message,
	})
}

// =========================================
// Pagination
// =========================================

// PageData wraps a page of results.
type PageData struct {
	List       interface{} `json:"list"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// NewPageData builds PageData, computing TotalPages by ceiling division.
func NewPageData(list interface{}, total int64, page, pageSize int) *PageData {
	return &PageData{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(total, pageSize),
	}
}

// TotalPages returns ceil(total / pageSize), 0 for an empty result.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
