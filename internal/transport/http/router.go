package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/cryptoscamalert/backend/internal/util"
)

type RouterConfig struct {
	AllowOrigins     []string
	RateLimitPerHour int
}

func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	if cfg.RateLimitPerHour > 0 {
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Skipper: func(c echo.Context) bool {
				return !strings.HasPrefix(c.Request().URL.Path, "/api")
			},
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(float64(cfg.RateLimitPerHour) / 3600),
				Burst:     cfg.RateLimitPerHour,
				ExpiresIn: time.Hour,
			}),
			ErrorHandler: func(c echo.Context, err error) error {
				return c.JSON(http.StatusForbidden, util.Error("could not identify the client"))
			},
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				return c.JSON(http.StatusTooManyRequests, util.Error("too many requests from this IP, please try again in an hour"))
			},
		}))
	}

	registerLogging(e)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, util.Envelope{"status": "ok"})
	})

	e.RouteNotFound("/*", func(c echo.Context) error {
		msg := fmt.Sprintf("this route %s is not defined on our server!", c.Request().RequestURI)
		return c.JSON(http.StatusNotFound, util.Error(msg))
	})

	return e
}
