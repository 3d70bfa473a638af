package handlers

import (
	"net/http"
	"strconv"

	"github.com/atinomeri/freela-sub000/internal/middleware"
	"github.com/atinomeri/freela-sub000/internal/models"
	"github.com/atinomeri/freela-sub000/internal/services"
	"github.com/atinomeri/freela-sub000/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	*BaseHandler
	projectService  *services.ProjectService
	proposalService *services.ProposalService
}

func NewProjectHandler(base *BaseHandler, projectService *services.ProjectService, proposalService *services.ProposalService) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler:     base,
		projectService:  projectService,
		proposalService: proposalService,
	}
}

func (h *ProjectHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public browse
	r.GET("/projects", h.ListOpenProjects)
	r.GET("/projects/:projectId", h.GetProject)

	// Employer-owned lifecycle
	employer := r.Group("/projects")
	employer.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleEmployer))
	{
		employer.POST("", h.CreateProject)
		employer.PUT("/:projectId", h.UpdateProject)
		employer.POST("/:projectId/close", h.CloseProject)
		employer.POST("/:projectId/reopen", h.ReopenProject)
		employer.GET("/:projectId/proposals", h.GetProjectProposals)
	}

	my := r.Group("/projects/my")
	my.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleEmployer))
	{
		my.GET("", h.GetMyProjects)
	}
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	req.EmployerID = userID

	project, err := h.projectService.CreateProject(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectService.GetProject(c.Param("projectId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) ListOpenProjects(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	projects, err := h.projectService.GetOpenProjects(limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProjectListResponse{Projects: projects, Total: len(projects)})
}

func (h *ProjectHandler) GetMyProjects(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	projects, err := h.projectService.GetEmployerProjects(userID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProjectListResponse{Projects: projects, Total: len(projects)})
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	project, err := h.projectService.UpdateProject(c.Param("projectId"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) CloseProject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.projectService.CloseProject(c.Param("projectId"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project closed"})
}

func (h *ProjectHandler) ReopenProject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.projectService.ReopenProject(c.Param("projectId"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project reopened"})
}

func (h *ProjectHandler) GetProjectProposals(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	proposals, err := h.proposalService.GetProjectProposals(c.Param("projectId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposals": proposals, "total": len(proposals)})
}
