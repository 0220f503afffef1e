package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/SuwethaV/bookreview/internal/application/user"
	"github.com/SuwethaV/bookreview/internal/interface/http/dto"
	"github.com/SuwethaV/bookreview/internal/interface/http/middleware"
	"github.com/SuwethaV/bookreview/pkg/response"
)

// ProfileHandler serves /api/v1/profile for the logged-in user.
type ProfileHandler struct {
	profileUseCase       *appuser.ProfileUseCase
	updateProfileUseCase *appuser.UpdateProfileUseCase
}

func NewProfileHandler(
	profileUseCase *appuser.ProfileUseCase,
	updateProfileUseCase *appuser.UpdateProfileUseCase,
) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase:       profileUseCase,
		updateProfileUseCase: updateProfileUseCase,
	}
}

// GetProfile returns the account with its books, reviews and average rating given.
// @Summary      My profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appuser.ProfileResponse}
// @Failure      401 {object} response.Response "not logged in"
// @Router       /api/v1/profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	result, err := h.profileUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateProfile changes the display name and avatar.
// @Summary      Edit my profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpdateProfileRequest true "profile"
// @Success      200 {object} response.Response{data=appuser.UserInfo}
// @Failure      400 {object} response.Response "invalid parameters"
// @Failure      401 {object} response.Response "not logged in"
// @Router       /api/v1/profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.updateProfileUseCase.Execute(c.Request.Context(), appuser.UpdateProfileRequest{
		UserID: middleware.MustGetUserID(c),
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
