package user

import (
	"context"

	bookapp "github.com/SuwethaV/bookreview/internal/application/book"
	"github.com/SuwethaV/bookreview/internal/domain/book"
	"github.com/SuwethaV/bookreview/internal/domain/review"
	"github.com/SuwethaV/bookreview/internal/domain/user"
)

// ProfileUseCase assembles the profile page: the account, the books it
// added and the reviews it wrote.
type ProfileUseCase struct {
	userService   user.Service
	bookService   book.Service
	reviewService review.Service
}

func NewProfileUseCase(userService user.Service, bookService book.Service, reviewService review.Service) *ProfileUseCase {
	return &ProfileUseCase{
		userService:   userService,
		bookService:   bookService,
		reviewService: reviewService,
	}
}

type ProfileResponse struct {
	User    UserInfo            `json:"user"`
	Books   []bookapp.BookDTO   `json:"books"`
	Reviews []bookapp.ReviewDTO `json:"reviews"`
	// AverageRating is the mean of the ratings this user gave, one decimal.
	AverageRating float64 `json:"average_rating"`
}

func (uc *ProfileUseCase) Execute(ctx context.Context, userID string) (*ProfileResponse, error) {
	// 1. account
	u, err := uc.userService.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 2. every book the user added, newest first
	books, _, err := uc.bookService.ListBooks(ctx, book.ListParams{
		CreatedBy: userID,
		SortBy:    book.SortNewest,
	})
	if err != nil {
		return nil, err
	}

	// 3. every review the user wrote
	reviews, err := uc.reviewService.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileResponse{
		User:          NewUserInfo(u),
		Books:         bookapp.NewBookDTOs(books),
		Reviews:       bookapp.NewReviewDTOs(reviews),
		AverageRating: review.Summarize(reviews).Average,
	}, nil
}

// UpdateProfileUseCase changes the display name and avatar.
// Existing reviews keep the name they were written under.
type UpdateProfileUseCase struct {
	userService user.Service
}

func NewUpdateProfileUseCase(userService user.Service) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{userService: userService}
}

type UpdateProfileRequest struct {
	UserID string
	Name   string
	Avatar string
}

func (uc *UpdateProfileUseCase) Execute(ctx context.Context, req UpdateProfileRequest) (*UserInfo, error) {
	u, err := uc.userService.UpdateProfile(ctx, req.UserID, req.Name, req.Avatar)
	if err != nil {
		return nil, err
	}
	info := NewUserInfo(u)
	return &info, nil
}
