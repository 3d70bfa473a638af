package handlers

import (
	"net/http"

	"github.com/atinomeri/freela-sub000/internal/middleware"
	"github.com/atinomeri/freela-sub000/internal/models"
	"github.com/atinomeri/freela-sub000/internal/services"
	"github.com/atinomeri/freela-sub000/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProposalHandler struct {
	*BaseHandler
	proposalService *services.ProposalService
}

func NewProposalHandler(base *BaseHandler, proposalService *services.ProposalService) *ProposalHandler {
	return &ProposalHandler{
		BaseHandler:     base,
		proposalService: proposalService,
	}
}

func (h *ProposalHandler) RegisterRoutes(r *gin.RouterGroup) {
	proposals := r.Group("/proposals")
	proposals.Use(middleware.AuthMiddleware())
	{
		proposals.POST("/projects/:projectId", middleware.RequireRoles(models.UserRoleFreelancer), h.Apply)
		proposals.GET("/my", middleware.RequireRoles(models.UserRoleFreelancer), h.GetMyProposals)
		proposals.PUT("/:proposalId/decision", middleware.RequireRoles(models.UserRoleEmployer), h.Decide)
	}
}

func (h *ProposalHandler) Apply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	req.ProjectID = c.Param("projectId")
	req.FreelancerID = userID

	proposal, err := h.proposalService.Apply(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewProposalResponse(proposal))
}

func (h *ProposalHandler) Decide(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.DecideRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	decision, err := h.proposalService.Decide(
		c.Request.Context(),
		c.Param("proposalId"),
		userID,
		models.ProposalStatus(req.Status),
	)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, decision)
}

func (h *ProposalHandler) GetMyProposals(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	proposals, err := h.proposalService.GetMyProposals(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposals": proposals, "total": len(proposals)})
}
