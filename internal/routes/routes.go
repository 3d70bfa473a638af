package routes

import (
	"net/http"

	"github.com/atinomeri/freela-sub000/internal/handlers"

	"github.com/gin-gonic/gin"
)

type AppHandlers struct {
	Auth         *handlers.AuthHandler
	Project      *handlers.ProjectHandler
	Proposal     *handlers.ProposalHandler
	Notification *handlers.NotificationHandler
	WS           *handlers.WSHandler
}

func RegisterRoutes(router *gin.Engine, h *AppHandlers) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	h.Auth.RegisterRoutes(api)
	h.Project.RegisterRoutes(api)
	h.Proposal.RegisterRoutes(api)
	h.Notification.RegisterRoutes(api)
	h.WS.RegisterRoutes(api)
}
