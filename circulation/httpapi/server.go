package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Option func(*server)

// WithLogger sets the request logger. slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(s *server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCatalogue enables GET /v1/books backed by the read model.
func WithCatalogue(catalogue Catalogue) Option {
	return func(s *server) {
		s.catalogue = catalogue
	}
}

type server struct {
	service   Service
	catalogue Catalogue
	logger    *slog.Logger
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// New builds the echo instance with middleware and all routes registered.
func New(service Service, opts ...Option) *echo.Echo {
	s := &server{
		service: service,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(requestLogger(s.logger))

	s.registerRoutes(e)

	return e
}

func (s *server) registerRoutes(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	v1 := e.Group("/v1")

	books := v1.Group("/books")
	books.GET("/:bookId", s.getAvailability)
	books.POST("/:bookId/copies", s.stockCopies)
	books.POST("/:bookId/withdrawals", s.withdrawCopies)
	if s.catalogue != nil {
		books.GET("", s.listBooks)
	}

	reservations := v1.Group("/reservations")
	reservations.POST("", s.reserve)
	reservations.GET("", s.listReservations)
	reservations.POST("/:reservationId/confirm", s.confirmReservation)
	reservations.POST("/:reservationId/cancel", s.cancelReservation)
	reservations.POST("/:reservationId/pickup", s.pickupReservation)

	loans := v1.Group("/loans")
	loans.POST("/:loanId/return", s.returnBook)
	loans.POST("/:loanId/renew", s.renewBook)
	loans.POST("/:loanId/lost", s.declareLoanLost)

	users := v1.Group("/users")
	users.GET("/:userId/reservations", s.userReservations)
	users.GET("/:userId/loans", s.userLoans)
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			logger.InfoContext(c.Request().Context(), "http request",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"ip", c.RealIP(),
			)

			return nil
		}
	}
}
