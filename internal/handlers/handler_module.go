package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/erp_finance/internal/core/domain"
	portssvc "github.com/SscSPs/erp_finance/internal/core/ports/services"
	"github.com/SscSPs/erp_finance/internal/dto"
	"github.com/SscSPs/erp_finance/internal/middleware"
	"github.com/gin-gonic/gin"
)

type moduleHandler struct {
	moduleService portssvc.ModuleSvcFacade
}

func newModuleHandler(moduleService portssvc.ModuleSvcFacade) *moduleHandler {
	return &moduleHandler{moduleService: moduleService}
}

func registerModuleRoutes(rg *gin.RouterGroup, moduleService portssvc.ModuleSvcFacade) {
	h := newModuleHandler(moduleService)

	modules := rg.Group("/modules")
	{
		modules.GET("", h.listModules)
		modules.PUT("/:module/enable", h.enableModule)
		modules.PUT("/:module/disable", h.disableModule)
	}
}

// listModules godoc
// @Summary List modules
// @Description Lists every business module and whether it is enabled
// @Tags modules
// @Produce  json
// @Success 200 {object} dto.ModuleSettingsResponse
// @Failure 500 {object} map[string]string "Failed to list modules"
// @Router /modules [get]
func (h *moduleHandler) listModules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	settings, err := h.moduleService.ListModules(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to list modules")
		return
	}

	c.JSON(http.StatusOK, dto.ModuleSettingsResponse{Modules: settings})
}

// enableModule godoc
// @Summary Enable a module
// @Tags modules
// @Produce  json
// @Param   module path string true "Module name"
// @Success 200 {object} domain.ModuleSetting
// @Failure 400 {object} map[string]string "Unknown module"
// @Failure 500 {object} map[string]string "Failed to enable module"
// @Router /modules/{module}/enable [put]
func (h *moduleHandler) enableModule(c *gin.Context) {
	h.toggle(c, true)
}

// disableModule godoc
// @Summary Disable a module
// @Description Operations of a disabled module are rejected with 403
// @Tags modules
// @Produce  json
// @Param   module path string true "Module name"
// @Success 200 {object} domain.ModuleSetting
// @Failure 400 {object} map[string]string "Unknown module"
// @Failure 500 {object} map[string]string "Failed to disable module"
// @Router /modules/{module}/disable [put]
func (h *moduleHandler) disableModule(c *gin.Context) {
	h.toggle(c, false)
}

func (h *moduleHandler) toggle(c *gin.Context, enable bool) {
	module := domain.Module(c.Param("module"))
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("module", string(module)))

	var (
		setting *domain.ModuleSetting
		err     error
	)
	if enable {
		setting, err = h.moduleService.EnableModule(c.Request.Context(), module)
	} else {
		setting, err = h.moduleService.DisableModule(c.Request.Context(), module)
	}
	if err != nil {
		respondWithError(c, logger, err, "Failed to update module")
		return
	}

	logger.Info("Module toggled", slog.Bool("enabled", setting.Enabled))
	c.JSON(http.StatusOK, setting)
}
