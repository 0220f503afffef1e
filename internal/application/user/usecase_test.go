package user

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"

	"github.com/SuwethaV/bookreview/internal/domain/book"
	"github.com/SuwethaV/bookreview/internal/domain/review"
	"github.com/SuwethaV/bookreview/internal/domain/user"
	"github.com/SuwethaV/bookreview/internal/infrastructure/persistence/gormdb"
	"github.com/SuwethaV/bookreview/internal/infrastructure/persistence/redis"
	apperrors "github.com/SuwethaV/bookreview/pkg/errors"
	"github.com/SuwethaV/bookreview/pkg/jwt"
)

type fixture struct {
	mr       *miniredis.Miniredis
	users    user.Service
	books    book.Service
	reviews  review.Service
	jwt      *jwt.Manager
	sessions *redis.SessionStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gormdb.Open(sqlite.Open(fmt.Sprintf("file:usr_%s?mode=memory&cache=shared", name)), false)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	books := book.NewService(gormdb.NewBookRepository(db))
	return &fixture{
		mr:       mr,
		users:    user.NewServiceWithCost(gormdb.NewUserRepository(db), bcrypt.MinCost),
		books:    books,
		reviews:  review.NewService(gormdb.NewReviewRepository(db), books, gormdb.NewTxManager(db)),
		jwt:      jwt.NewManager("test-secret", time.Hour, 24*time.Hour),
		sessions: redis.NewSessionStore(client),
	}
}

func (f *fixture) register(t *testing.T, name, email string) *AuthResponse {
	t.Helper()
	resp, err := NewRegisterUseCase(f.users, f.jwt, f.sessions).Execute(context.Background(), RegisterRequest{
		Name: name, Email: email, Password: "secret123",
	})
	require.NoError(t, err)
	return resp
}

func TestRegister_SignsIn(t *testing.T) {
	f := newFixture(t)

	resp := f.register(t, "Alice", " Alice@Example.com ")

	assert.NotEmpty(t, resp.User.ID)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.EqualValues(t, 3600, resp.ExpiresIn)

	claims, err := f.jwt.ParseAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "Alice", claims.Name)

	assert.True(t, f.mr.Exists("session:"+resp.User.ID))
	assert.Equal(t, 24*time.Hour, f.mr.TTL("session:"+resp.User.ID))

	_, err = NewRegisterUseCase(f.users, f.jwt, f.sessions).Execute(context.Background(), RegisterRequest{
		Name: "Other", Email: "alice@example.com", Password: "secret123",
	})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeEmailDuplicate))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "Alice", "alice@example.com")
	f.mr.FlushAll()

	uc := NewLoginUseCase(f.users, f.jwt, f.sessions)

	resp, err := uc.Execute(context.Background(), LoginRequest{Email: "ALICE@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, resp.User.ID)
	assert.True(t, f.mr.Exists("session:"+reg.User.ID))

	_, err = uc.Execute(context.Background(), LoginRequest{Email: "alice@example.com", Password: "wrong123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	_, err = uc.Execute(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUserNotFound))
}

func TestLogin_SessionFailureDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Alice", "alice@example.com")
	f.mr.SetError("ERR simulated outage")

	resp, err := NewLoginUseCase(f.users, f.jwt, f.sessions).Execute(context.Background(), LoginRequest{
		Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLogout_BlacklistsAccessToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg := f.register(t, "Alice", "alice@example.com")

	claims, err := f.jwt.ParseAccessToken(reg.AccessToken)
	require.NoError(t, err)

	require.NoError(t, NewLogoutUseCase(f.jwt, f.sessions).Execute(ctx, claims, reg.AccessToken))

	assert.False(t, f.mr.Exists("session:"+reg.User.ID))
	revoked, err := f.sessions.IsInBlacklist(ctx, reg.AccessToken)
	require.NoError(t, err)
	assert.True(t, revoked)
	ttl := f.mr.TTL("blacklist:" + reg.AccessToken)
	assert.True(t, ttl > 0 && ttl <= time.Hour, "ttl %s", ttl)

	// refresh is refused once the session is gone
	_, err = NewRefreshTokenUseCase(f.users, f.jwt, f.sessions).Execute(ctx, reg.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestRefreshToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg := f.register(t, "Alice", "alice@example.com")

	// a rename after login shows up in the refreshed token
	_, err := NewUpdateProfileUseCase(f.users).Execute(ctx, UpdateProfileRequest{UserID: reg.User.ID, Name: "Alicia"})
	require.NoError(t, err)

	uc := NewRefreshTokenUseCase(f.users, f.jwt, f.sessions)
	resp, err := uc.Execute(ctx, reg.RefreshToken)
	require.NoError(t, err)
	assert.EqualValues(t, 3600, resp.ExpiresIn)

	claims, err := f.jwt.ParseAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", claims.Name)
	assert.Equal(t, "alice@example.com", claims.Email)

	_, err = uc.Execute(ctx, reg.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = uc.Execute(ctx, "garbage")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	bob := f.register(t, "Bob", "bob@example.com")

	uc := NewProfileUseCase(f.users, f.books, f.reviews)

	empty, err := uc.Execute(ctx, alice.User.ID)
	require.NoError(t, err)
	assert.Empty(t, empty.Books)
	assert.Empty(t, empty.Reviews)
	assert.Zero(t, empty.AverageRating)

	mine, err := f.books.CreateBook(ctx, book.CreateInput{Title: "Emma", Author: "Jane Austen"}, alice.User.ID)
	require.NoError(t, err)
	theirs, err := f.books.CreateBook(ctx, book.CreateInput{Title: "Dune", Author: "Frank Herbert"}, bob.User.ID)
	require.NoError(t, err)
	for _, r := range []int{5, 4, 4} {
		_, _, err := f.reviews.AddReview(ctx, review.AddInput{BookID: theirs.ID, UserID: alice.User.ID, UserName: "Alice", Rating: r, Comment: "ok"})
		require.NoError(t, err)
	}
	_, _, err = f.reviews.AddReview(ctx, review.AddInput{BookID: mine.ID, UserID: bob.User.ID, UserName: "Bob", Rating: 1, Comment: "meh"})
	require.NoError(t, err)

	p, err := uc.Execute(ctx, alice.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.User.Name)
	require.Len(t, p.Books, 1)
	assert.Equal(t, "Emma", p.Books[0].Title)
	assert.Len(t, p.Reviews, 3)
	assert.Equal(t, 4.3, p.AverageRating)

	_, err = uc.Execute(ctx, "ghost")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUserNotFound))
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg := f.register(t, "Alice", "alice@example.com")
	uc := NewUpdateProfileUseCase(f.users)

	info, err := uc.Execute(ctx, UpdateProfileRequest{UserID: reg.User.ID, Name: " Alicia ", Avatar: "https://img/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", info.Name)
	assert.Equal(t, "https://img/a.png", info.Avatar)

	_, err = uc.Execute(ctx, UpdateProfileRequest{UserID: reg.User.ID, Name: "A"})
	assert.ErrorIs(t, err, user.ErrInvalidName)
}
