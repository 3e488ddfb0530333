package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkushnir/library-service-api/api/controllers"
	"github.com/dkushnir/library-service-api/api/middleware"
	"github.com/dkushnir/library-service-api/internal/auth"
	"github.com/dkushnir/library-service-api/internal/books"
	"github.com/dkushnir/library-service-api/internal/borrowings"
	"github.com/dkushnir/library-service-api/pkg/auth/session"
	"github.com/dkushnir/library-service-api/pkg/config"
	"github.com/dkushnir/library-service-api/pkg/db"
	"github.com/dkushnir/library-service-api/pkg/logger"
	"github.com/dkushnir/library-service-api/pkg/redis"
)

// RouterParams collects everything the HTTP surface depends on.
type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           *redis.Client
	Sessions        session.AccessSessionChecker
	AuthService     auth.Service
	RegisterService auth.RegisterService
	BooksService    books.Service
	BorrowService   borrowings.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	authed := middleware.Auth(cfg.JWT, p.Sessions, logg)
	staffOnly := middleware.RequireStaff(logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/", controllers.UserRegister(p.RegisterService, logg))
		r.Post("/token", controllers.UserToken(p.AuthService, logg))
		r.Post("/token/refresh", controllers.UserTokenRefresh(p.AuthService, logg))
		r.Post("/logout", controllers.UserLogout(p.AuthService, cfg.JWT, logg))

		r.Group(func(r chi.Router) {
			r.Use(authed)
			r.Get("/me", controllers.UserMe(p.AuthService, logg))
			r.Patch("/me", controllers.UserMeUpdate(p.AuthService, logg))
		})
	})

	r.Route("/api/v1/books", func(r chi.Router) {
		r.Get("/", controllers.BooksList(p.BooksService, logg))
		r.Get("/{bookId}", controllers.BooksGet(p.BooksService, logg))

		r.Group(func(r chi.Router) {
			r.Use(authed, staffOnly)
			r.Post("/", controllers.BooksCreate(p.BooksService, logg))
			r.Put("/{bookId}", controllers.BooksUpdate(p.BooksService, logg))
			r.Delete("/{bookId}", controllers.BooksDelete(p.BooksService, logg))
		})
	})

	r.Route("/api/v1/borrowings", func(r chi.Router) {
		r.Use(authed)
		r.Get("/", controllers.BorrowingsList(p.BorrowService, logg))
		r.Post("/", controllers.BorrowingsCreate(p.BorrowService, logg))
		r.Get("/{borrowingId}", controllers.BorrowingsGet(p.BorrowService, logg))
		r.Post("/{borrowingId}/return", controllers.BorrowingsReturn(p.BorrowService, logg))
	})

	return r
}
