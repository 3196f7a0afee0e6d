package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ledger_wallet_session/pkg/middleware"
	"ledger_wallet_session/pkg/service"
)

type Handler struct {
	service        *service.Service
	allowedOrigins []string
}

func NewHandler(service *service.Service, allowedOrigins []string) *Handler {
	return &Handler{
		service:        service,
		allowedOrigins: allowedOrigins,
	}
}

func (h *Handler) InitRoute() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	origins := h.allowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api", middleware.TokenCapture(h.service.Authorization))
	{
		session := api.Group("/session")
		{
			session.GET("", h.GetSession)
			session.POST("/probe", h.Probe)
			session.POST("/connect", h.Connect)
			session.POST("/disconnect", h.Disconnect)
			session.PATCH("/draft", h.EditDraft)
		}

		transactions := api.Group("/transactions")
		{
			transactions.GET("", h.GetTransactions)
			transactions.GET("/count", h.GetTransactionCount)
			transactions.POST("", h.SendTransaction)
		}
	}
	return router
}
