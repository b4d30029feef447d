package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plumberf/internal/api/middleware"
	"plumberf/internal/api/v1/dto"
	"plumberf/internal/api/v1/services"
)

// CatalogHandler handles trades and reference vocabulary
type CatalogHandler struct {
	service services.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// CreateTrade handles POST /trades
//
// @Summary Create a trade
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body dto.CreateTradeRequest true "Trade"
// @Success 201 {object} model.Trade
// @Failure 400 {object} errors.APIError "Slug already taken"
// @Failure 422 {object} errors.APIError "Missing name or malformed slug"
// @Router /trades [post]
func (h *CatalogHandler) CreateTrade(c *gin.Context) {
	var req dto.CreateTradeRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	trade, err := h.service.CreateTrade(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, trade)
}

// ListTrades handles GET /trades
//
// @Summary List trades
// @Tags catalog
// @Produce json
// @Success 200 {array} model.Trade
// @Router /trades [get]
func (h *CatalogHandler) ListTrades(c *gin.Context) {
	trades, err := h.service.ListTrades(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, trades)
}

// GetTrade handles GET /trades/:slug
//
// @Summary Get a trade by slug
// @Tags catalog
// @Produce json
// @Param slug path string true "Trade slug"
// @Success 200 {object} model.Trade
// @Failure 404 {object} errors.APIError "Unknown trade"
// @Router /trades/{slug} [get]
func (h *CatalogHandler) GetTrade(c *gin.Context) {
	trade, err := h.service.GetTrade(c.Request.Context(), c.Param("slug"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, trade)
}

// CreateTool handles POST /tools
//
// @Summary Create a tool
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body dto.CreateTermRequest true "Tool"
// @Success 201 {object} model.Tool
// @Failure 400 {object} errors.APIError "Unknown trade"
// @Router /tools [post]
func (h *CatalogHandler) CreateTool(c *gin.Context) {
	var req dto.CreateTermRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	tool, err := h.service.CreateTool(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tool)
}

// ListTools handles GET /tools
//
// @Summary List tools
// @Description With trade_id, returns that trade's tools and the global ones
// @Tags catalog
// @Produce json
// @Param trade_id query int false "Trade ID"
// @Success 200 {array} model.Tool
// @Router /tools [get]
func (h *CatalogHandler) ListTools(c *gin.Context) {
	var query dto.VocabularyQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	tools, err := h.service.ListTools(c.Request.Context(), query)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tools)
}

// CreateMaterial handles POST /materials
//
// @Summary Create a material
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body dto.CreateTermRequest true "Material"
// @Success 201 {object} model.Material
// @Failure 400 {object} errors.APIError "Unknown trade"
// @Router /materials [post]
func (h *CatalogHandler) CreateMaterial(c *gin.Context) {
	var req dto.CreateTermRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	material, err := h.service.CreateMaterial(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, material)
}

// ListMaterials handles GET /materials
//
// @Summary List materials
// @Tags catalog
// @Produce json
// @Param trade_id query int false "Trade ID"
// @Success 200 {array} model.Material
// @Router /materials [get]
func (h *CatalogHandler) ListMaterials(c *gin.Context) {
	var query dto.VocabularyQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	materials, err := h.service.ListMaterials(c.Request.Context(), query)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, materials)
}

// CreateTag handles POST /tags
//
// @Summary Create a tag
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body dto.CreateTermRequest true "Tag"
// @Success 201 {object} model.Tag
// @Failure 400 {object} errors.APIError "Unknown trade"
// @Router /tags [post]
func (h *CatalogHandler) CreateTag(c *gin.Context) {
	var req dto.CreateTermRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	tag, err := h.service.CreateTag(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

// ListTags handles GET /tags
//
// @Summary List tags
// @Tags catalog
// @Produce json
// @Param trade_id query int false "Trade ID"
// @Success 200 {array} model.Tag
// @Router /tags [get]
func (h *CatalogHandler) ListTags(c *gin.Context) {
	var query dto.VocabularyQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	tags, err := h.service.ListTags(c.Request.Context(), query)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}
