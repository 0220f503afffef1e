//go:build wireinject
// +build wireinject

// Injector definition. Regenerate wire_gen.go with `wire gen ./cmd/api`.

package main

import (
	"net/http"

	"github.com/google/wire"

	appbook "github.com/SuwethaV/bookreview/internal/application/book"
	appreview "github.com/SuwethaV/bookreview/internal/application/review"
	appuser "github.com/SuwethaV/bookreview/internal/application/user"
	"github.com/SuwethaV/bookreview/internal/domain/book"
	"github.com/SuwethaV/bookreview/internal/domain/review"
	"github.com/SuwethaV/bookreview/internal/domain/user"
	"github.com/SuwethaV/bookreview/internal/infrastructure/config"
	"github.com/SuwethaV/bookreview/internal/infrastructure/persistence"
	"github.com/SuwethaV/bookreview/internal/infrastructure/persistence/redis"
	"github.com/SuwethaV/bookreview/internal/interface/http/handler"
	"github.com/SuwethaV/bookreview/internal/interface/http/middleware"
	"github.com/SuwethaV/bookreview/internal/interface/http/router"
)

// infrastructureSet connects to the configured store, Redis and the broker.
var infrastructureSet = wire.NewSet(
	persistence.NewRepositories,
	wire.FieldsOf(new(*persistence.Repositories), "Books", "Reviews", "Users", "Tx"),
	provideRedisClient,
	redis.NewSessionStore,
	provideBookCache,
	provideEventPublisher,
	provideJWTManager,
)

var domainSet = wire.NewSet(
	book.NewService,
	review.NewService,
	user.NewService,
)

var applicationSet = wire.NewSet(
	appbook.NewCreateBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appreview.NewAddReviewUseCase,
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshTokenUseCase,
	appuser.NewProfileUseCase,
	appuser.NewUpdateProfileUseCase,
)

var interfaceSet = wire.NewSet(
	middleware.NewAuthMiddleware,
	handler.NewAuthHandler,
	handler.NewBookHandler,
	handler.NewReviewHandler,
	handler.NewProfileHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
	provideHTTPServer,
)

// InitializeApp builds the HTTP server. cleanup closes every connection
// opened along the way, in reverse order.
func InitializeApp(cfg *config.Config) (*http.Server, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil, nil
}
