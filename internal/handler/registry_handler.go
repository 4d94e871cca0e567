package handler

import (
	"net/http"

	"scolaris/internal/middleware"
	"scolaris/internal/model"
	"scolaris/internal/service"
	"scolaris/pkg/pagination"
	"scolaris/pkg/response"

	"github.com/gin-gonic/gin"
)

type RegistryHandler struct {
	registryService service.RegistryService
}

func NewRegistryHandler(registryService service.RegistryService) *RegistryHandler {
	return &RegistryHandler{registryService: registryService}
}

func (h *RegistryHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyStaff := middleware.RequireRole(model.RoleAdmin, model.RoleBursar, model.RoleStaff)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	sections := router.Group("/api/sections")
	{
		sections.POST("", adminOnly, h.CreateSection)
		sections.GET("", anyStaff, h.ListSections)
	}

	classes := router.Group("/api/classes")
	{
		classes.POST("", adminOnly, h.CreateClass)
		classes.GET("", anyStaff, h.ListClasses)
	}

	students := router.Group("/api/students")
	{
		students.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleBursar), h.CreateStudent)
		students.GET("", anyStaff, h.ListStudents)
	}
}

// CreateSection creates a section
// @Summary      Create section
// @Tags         registry
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateSectionRequest  true  "Create Section Payload"
// @Success      201      {object}  response.Response{data=model.Section}
// @Failure      400      {object}  response.Response
// @Router       /api/sections [post]
func (h *RegistryHandler) CreateSection(c *gin.Context) {
	schoolID, ok := middleware.SchoolID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing school identity"))
		return
	}

	var req service.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	section, err := h.registryService.CreateSection(c.Request.Context(), schoolID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, section))
}

// ListSections lists the school's sections
// @Summary      List sections
// @Tags         registry
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Section}
// @Router       /api/sections [get]
func (h *RegistryHandler) ListSections(c *gin.Context) {
	schoolID, ok := middleware.SchoolID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing school identity"))
		return
	}

	sections, err := h.registryService.ListSections(c.Request.Context(), schoolID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, sections))
}

// CreateClass creates a class within a section
// @Summary      Create class
// @Tags         registry
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateClassRequest  true  "Create Class Payload"
// @Success      201      {object}  response.Response{data=model.Class}
// @Failure      400      {object}  response.Response
// @Router       /api/classes [post]
func (h *RegistryHandler) CreateClass(c *gin.Context) {
	schoolID, ok := middleware.SchoolID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing school identity"))
		return
	}

	var req service.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	class, err := h.registryService.CreateClass(c.Request.Context(), schoolID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, class))
}

// ListClasses lists the school's classes
// @Summary      List classes
// @Tags         registry
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Class}
// @Router       /api/classes [get]
func (h *RegistryHandler) ListClasses(c *gin.Context) {
	schoolID, ok := middleware.SchoolID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing school identity"))
		return
	}

	classes, err := h.registryService.ListClasses(c.Request.Context(), schoolID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, classes))
}

// CreateStudent registers a student
// @Summary      Create student
// @Tags         registry
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateStudentRequest  true  "Create Student Payload"
// @Success      201      {object}  response.Response{data=service.StudentResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/students [post]
func (h *RegistryHandler) CreateStudent(c *gin.Context) {
	schoolID, ok := middleware.SchoolID(c)
	userID, okUser := middleware.UserID(c)
	if !ok || !okUser {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing identity"))
		return
	}

	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	student, err := h.registryService.CreateStudent(c.Request.Context(), schoolID, userID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, student))
}

// ListStudents lists students, optionally filtered by class
// @Summary      List students
// @Tags         registry
// @Security     BearerAuth
// @Produce      json
// @Param        class_id  query     string  false  "Filter by class"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Number of items per page (default 20)"
// @Success      200       {object}  response.Response{data=object}
// @Failure      500       {object}  response.Response
// @Router       /api/students [get]
func (h *RegistryHandler) ListStudents(c *gin.Context) {
	schoolID, ok := middleware.SchoolID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing school identity"))
		return
	}

	params := pagination.Parse(c)
	students, total, err := h.registryService.ListStudents(c.Request.Context(), schoolID, c.Query("class_id"), params.Page, params.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, params.Envelope("students", students, total)))
}
