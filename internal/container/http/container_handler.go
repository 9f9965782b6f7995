// Package http provides the container HTTP handlers.
package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/tokenbox/internal/auth/http"
	containerDomain "github.com/allisson/tokenbox/internal/container/domain"
	"github.com/allisson/tokenbox/internal/container/http/dto"
	containerUseCase "github.com/allisson/tokenbox/internal/container/usecase"
	apperrors "github.com/allisson/tokenbox/internal/errors"
	"github.com/allisson/tokenbox/internal/httputil"
	policyDomain "github.com/allisson/tokenbox/internal/policy/domain"
)

// ContainerHandler handles container HTTP requests.
type ContainerHandler struct {
	useCase containerUseCase.UseCase
	logger  *slog.Logger
}

// NewContainerHandler creates a new ContainerHandler.
func NewContainerHandler(useCase containerUseCase.UseCase, logger *slog.Logger) *ContainerHandler {
	return &ContainerHandler{useCase: useCase, logger: logger}
}

func (h *ContainerHandler) actor(c *gin.Context) (policyDomain.Actor, bool) {
	actor, ok := authHTTP.GetActor(c.Request.Context())
	if !ok {
		h.logger.Error("container handler: no authenticated actor in context")
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
	}
	return actor, ok
}

// Create handles POST /container/init.
func (h *ContainerHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.CreateContainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	container, err := h.useCase.Create(c.Request.Context(), actor, containerUseCase.CreateInput{
		Type:        req.Type,
		Description: req.Description,
		Login:       req.User,
		Realm:       req.Realm,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.Success(c, gin.H{"container_serial": container.Serial})
}

// List handles GET /container/.
func (h *ContainerHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	page, err := httputil.ParsePage(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	result, err := h.useCase.List(c.Request.Context(), actor, containerUseCase.ListInput{
		Type:            c.Query("type"),
		TokenSerial:     c.Query("token_serial"),
		SerialSubstring: c.Query("container_serial"),
		Page:            page,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.Success(c, dto.MapContainersToListResponse(result.Containers, result.Cursors))
}

// Get handles GET /container/:serial.
func (h *ContainerHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	container, err := h.useCase.Get(c.Request.Context(), actor, c.Param("serial"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.Success(c, dto.MapContainerToResponse(container))
}

// Delete handles DELETE /container/:serial.
func (h *ContainerHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.useCase.Delete(c.Request.Context(), actor, c.Param("serial")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.Success(c, true)
}

// SetDescription handles POST /container/:serial/description.
func (h *ContainerHandler) SetDescription(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.SetDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if req.Description == nil {
		httputil.HandleErrorGin(c, containerDomain.ErrMissingDescription, h.logger)
		return
	}

	err := h.useCase.SetDescription(c.Request.Context(), actor, c.Param("serial"), *req.Description)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.Success(c, true)
}

// SetStates handles POST /container/:serial/states.
func (h *ContainerHandler) SetStates(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.SetStatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	results, err := h.useCase.SetStates(c.Request.Context(), actor, c.Param("serial"), splitList(req.States))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.Success(c, results)
}

// SetInfo handles POST /container/:serial/info/:key.
func (h *ContainerHandler) SetInfo(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.SetInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if req.Value == nil {
		httputil.HandleErrorGin(c, containerDomain.ErrMissingInfoValue, h.logger)
		return
	}

	err := h.useCase.SetInfo(c.Request.Context(), actor, c.Param("serial"), c.Param("key"), *req.Value)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.Success(c, true)
}

// UpdateLastSeen handles POST /container/:serial/lastseen.
func (h *ContainerHandler) UpdateLastSeen(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}

	if err := h.useCase.UpdateLastSeen(c.Request.Context(), c.Param("serial")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.Success(c, true)
}

// AssignUser handles POST /container/:serial/assign.
func (h *ContainerHandler) AssignUser(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.UserAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	assigned, err := h.useCase.AssignUser(c.Request.Context(), actor, c.Param("serial"), req.User, req.Realm)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.Success(c, assigned)
}

// UnassignUser handles POST /container/:serial/unassign.
func (h *ContainerHandler) UnassignUser(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.UserAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	removed, err := h.useCase.UnassignUser(c.Request.Context(), actor, c.Param("serial"), req.User, req.Realm)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.Success(c, removed)
}

// AddTokens handles POST /container/:serial/add.
func (h *ContainerHandler) AddTokens(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.TokenSerialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	results, err := h.useCase.AddTokens(c.Request.Context(), actor, c.Param("serial"), req.Serial)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.Success(c, results)
}

// RemoveTokens handles POST /container/:serial/remove.
func (h *ContainerHandler) RemoveTokens(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.TokenSerialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	results, err := h.useCase.RemoveTokens(c.Request.Context(), actor, c.Param("serial"), req.Serial)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.Success(c, results)
}

// SetRealms handles POST /container/:serial/realms. The route is registered
// behind the admin-only middleware.
func (h *ContainerHandler) SetRealms(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.SetRealmsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if req.Realms == nil {
		httputil.HandleErrorGin(c, containerDomain.ErrMissingRealms, h.logger)
		return
	}

	result, err := h.useCase.SetRealms(c.Request.Context(), actor, c.Param("serial"), *req.Realms)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	value := make(map[string]bool, len(result.Realms)+1)
	for realm, accepted := range result.Realms {
		value[realm] = accepted
	}
	value["deleted"] = result.Deleted

	httputil.Success(c, value)
}

// StateTypes handles GET /container/statetypes.
func (h *ContainerHandler) StateTypes(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}

	httputil.Success(c, h.useCase.StateTypes(c.Request.Context()))
}

// Types handles GET /container/types.
func (h *ContainerHandler) Types(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}

	types := h.useCase.Types(c.Request.Context())
	value := make(map[string]containerUseCase.TypeInfo, len(types))
	for typeName, info := range types {
		value[string(typeName)] = info
	}

	httputil.Success(c, value)
}

// CreateTemplate handles POST /container/:serial/template/:name. The first
// path segment names the container type here, not a serial; the parameter
// keeps the serial name because sibling routes share the wildcard.
func (h *ContainerHandler) CreateTemplate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	template, err := h.useCase.CreateTemplate(
		c.Request.Context(), actor, c.Param("serial"), c.Param("name"), req.Options)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.Success(c, dto.MapTemplateToResponse(template))
}

// TemplateOptions handles GET /container/:serial/template/options. As with
// CreateTemplate, the serial parameter carries the container type.
func (h *ContainerHandler) TemplateOptions(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}

	options, err := h.useCase.TemplateOptions(c.Request.Context(), c.Param("serial"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.Success(c, options)
}

// RegisterRoutes registers the container routes. adminOnly guards the routes
// that are never exposed to self-service roles.
func (h *ContainerHandler) RegisterRoutes(router gin.IRouter, adminOnly gin.HandlerFunc) {
	group := router.Group("/container")

	group.POST("/init", h.Create)
	group.GET("/", h.List)
	group.GET("/statetypes", h.StateTypes)
	group.GET("/types", h.Types)

	group.GET("/:serial", h.Get)
	group.DELETE("/:serial", h.Delete)
	group.POST("/:serial/description", h.SetDescription)
	group.POST("/:serial/states", h.SetStates)
	group.POST("/:serial/info/:key", h.SetInfo)
	group.POST("/:serial/lastseen", h.UpdateLastSeen)
	group.POST("/:serial/add", h.AddTokens)
	group.POST("/:serial/remove", h.RemoveTokens)
	group.POST("/:serial/assign", h.AssignUser)
	group.POST("/:serial/unassign", h.UnassignUser)
	group.POST("/:serial/realms", adminOnly, h.SetRealms)

	group.POST("/:serial/template/:name", h.CreateTemplate)
	group.GET("/:serial/template/options", h.TemplateOptions)
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
