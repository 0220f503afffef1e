package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"

	appbook "github.com/SuwethaV/bookreview/internal/application/book"
	"github.com/SuwethaV/bookreview/internal/application/event"
	appreview "github.com/SuwethaV/bookreview/internal/application/review"
	appuser "github.com/SuwethaV/bookreview/internal/application/user"
	"github.com/SuwethaV/bookreview/internal/domain/book"
	"github.com/SuwethaV/bookreview/internal/domain/review"
	"github.com/SuwethaV/bookreview/internal/domain/user"
	"github.com/SuwethaV/bookreview/internal/infrastructure/config"
	"github.com/SuwethaV/bookreview/internal/infrastructure/persistence/gormdb"
	"github.com/SuwethaV/bookreview/internal/infrastructure/persistence/redis"
	"github.com/SuwethaV/bookreview/internal/interface/http/handler"
	"github.com/SuwethaV/bookreview/internal/interface/http/middleware"
	"github.com/SuwethaV/bookreview/internal/interface/http/router"
	"github.com/SuwethaV/bookreview/pkg/jwt"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type server struct {
	t      *testing.T
	engine *gin.Engine
}

func newServer(t *testing.T, mode string) *server {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gormdb.Open(sqlite.Open(fmt.Sprintf("file:http_%s?mode=memory&cache=shared", name)), false)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: mode},
		CORS:   config.CORSConfig{AllowOrigins: []string{"http://localhost:3000"}},
	}

	txm := gormdb.NewTxManager(db)
	books := book.NewService(gormdb.NewBookRepository(db))
	reviews := review.NewService(gormdb.NewReviewRepository(db), books, txm)
	users := user.NewServiceWithCost(gormdb.NewUserRepository(db), bcrypt.MinCost)
	jwtManager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	sessions := redis.NewSessionStore(client)
	cache := redis.NewBookCache(client, time.Minute)
	events := event.Noop{}

	h := router.Handlers{
		Auth: handler.NewAuthHandler(
			appuser.NewRegisterUseCase(users, jwtManager, sessions),
			appuser.NewLoginUseCase(users, jwtManager, sessions),
			appuser.NewLogoutUseCase(jwtManager, sessions),
			appuser.NewRefreshTokenUseCase(users, jwtManager, sessions),
		),
		Book: handler.NewBookHandler(
			appbook.NewCreateBookUseCase(books, events),
			appbook.NewListBooksUseCase(books),
			appbook.NewGetBookUseCase(books, reviews, cache),
			appbook.NewUpdateBookUseCase(books, cache, events),
			appbook.NewDeleteBookUseCase(books, reviews, txm, cache, events),
		),
		Review: handler.NewReviewHandler(appreview.NewAddReviewUseCase(reviews, users, cache, events)),
		Profile: handler.NewProfileHandler(
			appuser.NewProfileUseCase(users, books, reviews),
			appuser.NewUpdateProfileUseCase(users),
		),
	}

	return &server{t: t, engine: router.New(cfg, h, middleware.NewAuthMiddleware(jwtManager, sessions))}
}

func (s *server) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (s *server) signup(name, email string) appuser.AuthResponse {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "secret123",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var auth appuser.AuthResponse
	require.NoError(s.t, json.Unmarshal(env.Data, &auth))
	return auth
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestOperationalEndpoints(t *testing.T) {
	s := newServer(t, gin.ReleaseMode)

	w, env := s.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w, _ = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	w, _ = s.do(http.MethodGet, "/swagger/index.html", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthGate(t *testing.T) {
	s := newServer(t, gin.TestMode)
	body := map[string]interface{}{"title": "Dune", "author": "Frank Herbert"}

	w, env := s.do(http.MethodPost, "/api/v1/books", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40100, env.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/books", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":40101`)

	w, env = s.do(http.MethodPost, "/api/v1/books", "not-a-jwt", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40101, env.Code)

	// refresh tokens are not access tokens
	alice := s.signup("Alice", "alice@example.com")
	w, env = s.do(http.MethodPost, "/api/v1/books", alice.RefreshToken, body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40101, env.Code)

	// reads stay public
	w, _ = s.do(http.MethodGet, "/api/v1/books", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBookReviewFlow(t *testing.T) {
	s := newServer(t, gin.TestMode)
	alice := s.signup("Alice", "alice@example.com")
	bob := s.signup("Bob", "bob@example.com")

	// create
	w, env := s.do(http.MethodPost, "/api/v1/books", alice.AccessToken, map[string]interface{}{
		"title": "Dune", "author": "Frank Herbert", "genre": "Sci-Fi", "year": 1965,
		"average_rating": 5, "review_count": 99,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[appbook.BookDTO](t, env)
	assert.Equal(t, alice.User.ID, created.CreatedBy)
	assert.Zero(t, created.AverageRating)
	assert.Zero(t, created.ReviewCount)

	w, env = s.do(http.MethodPost, "/api/v1/books", alice.AccessToken, map[string]interface{}{"author": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40900, env.Code)

	// review validation
	w, env = s.do(http.MethodPost, "/api/v1/reviews", bob.AccessToken, map[string]interface{}{"book_id": created.ID, "rating": 6, "comment": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40001, env.Code)

	w, env = s.do(http.MethodPost, "/api/v1/reviews", bob.AccessToken, map[string]interface{}{"book_id": created.ID, "rating": 4, "comment": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40002, env.Code)

	w, env = s.do(http.MethodPost, "/api/v1/reviews", bob.AccessToken, map[string]interface{}{"book_id": "missing", "rating": 4, "comment": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40402, env.Code)

	// warm the detail cache, then review: the next read must see the new aggregate
	w, _ = s.do(http.MethodGet, "/api/v1/books/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, rating := range []int{5, 4} {
		w, env = s.do(http.MethodPost, "/api/v1/reviews", bob.AccessToken, map[string]interface{}{"book_id": created.ID, "rating": rating, "comment": "great"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	added := decode[appreview.AddReviewResponse](t, env)
	assert.Equal(t, "Bob", added.Review.UserName)
	assert.Equal(t, 4.5, added.Book.AverageRating)
	assert.Equal(t, 2, added.Book.ReviewCount)

	w, env = s.do(http.MethodGet, "/api/v1/books/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[appbook.BookDetail](t, env)
	assert.Equal(t, 4.5, detail.Book.AverageRating)
	assert.Equal(t, 2, detail.Book.ReviewCount)
	assert.Len(t, detail.Reviews, 2)

	// list
	w, env = s.do(http.MethodGet, "/api/v1/books?keyword=dune&genre=All&sort_by=rating", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[appbook.ListBooksResponse](t, env)
	assert.EqualValues(t, 1, list.Total)
	assert.Equal(t, 5, list.PageSize)

	// ownership
	w, env = s.do(http.MethodPut, "/api/v1/books/"+created.ID, bob.AccessToken, map[string]interface{}{"title": "Mine now"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 40104, env.Code)

	w, env = s.do(http.MethodPut, "/api/v1/books/"+created.ID, alice.AccessToken, map[string]interface{}{"title": "Dune Messiah", "review_count": 0})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[appbook.BookDTO](t, env)
	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.Equal(t, 2, updated.ReviewCount)

	w, _ = s.do(http.MethodDelete, "/api/v1/books/"+created.ID, bob.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodDelete, "/api/v1/books/"+created.ID, alice.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodGet, "/api/v1/books/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40402, env.Code)

	// bob's reviews went with the book
	w, env = s.do(http.MethodGet, "/api/v1/profile", bob.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[appuser.ProfileResponse](t, env)
	assert.Empty(t, profile.Reviews)
	assert.Zero(t, profile.AverageRating)
}

func TestSessionLifecycle(t *testing.T) {
	s := newServer(t, gin.TestMode)
	alice := s.signup("Alice", "alice@example.com")

	w, env := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 40003, env.Code)

	w, env = s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "alice@example.com", "password": "wrong1234"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40103, env.Code)

	w, env = s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "alice@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[appuser.AuthResponse](t, env)

	w, env = s.do(http.MethodPut, "/api/v1/profile", login.AccessToken, map[string]string{"name": "Alicia"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alicia", decode[appuser.UserInfo](t, env).Name)

	w, env = s.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": login.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[appuser.RefreshTokenResponse](t, env).AccessToken)

	w, _ = s.do(http.MethodPost, "/api/v1/auth/logout", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodGet, "/api/v1/profile", login.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40102, env.Code)

	// the session is gone, so the refresh token no longer works either
	w, _ = s.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": alice.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMalformedBody(t *testing.T) {
	s := newServer(t, gin.TestMode)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":40901`)
}

func TestCORS(t *testing.T) {
	s := newServer(t, gin.TestMode)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/books", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
