package http

import (
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mikiasgoitom/Pawgram/internal/domain/contract"
	"github.com/mikiasgoitom/Pawgram/internal/handler/http/middleware"
	"github.com/mikiasgoitom/Pawgram/internal/usecase"
	usecasecontract "github.com/mikiasgoitom/Pawgram/internal/usecase/contract"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	feedHandler *FeedHandler
	jwtService  usecase.JWTService
}

func NewRouter(feedUsecase usecasecontract.IFeedUseCase, feedCache contract.IFeedCache, jwtService usecase.JWTService) *Router {
	return &Router{
		feedHandler: NewFeedHandler(feedUsecase, feedCache),
		jwtService:  jwtService,
	}
}

func (r *Router) SetupRoutes(router *gin.Engine) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	// rate limiter configuration
	lmt := tollbooth.NewLimiter(10, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
	lmt.SetIPLookups([]string{"RemoteAddr", "X-Forwarded-For", "X-Real-IP"})
	lmt.SetMessage("Too many requests, please try again later.")
	router.Use(middleware.RateLimiter(lmt))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		MessageHandler(c, 200, "ok")
	})

	// API v1 routes (all feed routes require authentication)
	v1 := router.Group("/api/v1")
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleWare(r.jwtService))
	{
		// Feed routes
		protected.GET("/feed", r.feedHandler.GetFeedHandler)
		protected.POST("/feed/refresh", r.feedHandler.RefreshFeedHandler)
		protected.PUT("/feed/sort", r.feedHandler.SetSortModeHandler)
		protected.POST("/feed/viewport", r.feedHandler.ViewportHandler)

		// Interaction routes
		protected.POST("/items/:itemID/view", r.feedHandler.RecordViewHandler)
		protected.POST("/items/:itemID/like", r.feedHandler.ToggleLikeHandler)
		protected.POST("/items/:itemID/double-tap", r.feedHandler.DoubleTapHandler)
		protected.DELETE("/items/:itemID", r.feedHandler.DeleteItemHandler)
	}
}
