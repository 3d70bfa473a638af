package handlers

import (
	"github.com/atinomeri/freela-sub000/internal/middleware"
	"github.com/atinomeri/freela-sub000/ws"

	"github.com/gin-gonic/gin"
)

type WSHandler struct {
	*BaseHandler
	manager *ws.Manager
}

func NewWSHandler(base *BaseHandler, manager *ws.Manager) *WSHandler {
	return &WSHandler{
		BaseHandler: base,
		manager:     manager,
	}
}

func (h *WSHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/ws", middleware.AuthMiddleware(), h.Connect)
}

func (h *WSHandler) Connect(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	ws.ServeWS(h.manager, c.Writer, c.Request, userID)
}
