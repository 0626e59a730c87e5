package handler

import (
	"net/http"

	"github.com/supportagent/supportagent/internal/models"
	"github.com/supportagent/supportagent/internal/tools"
)

// ToolsHandler handles GET /api/v1/tools
type ToolsHandler struct {
	registry *tools.Registry
}

func NewToolsHandler(registry *tools.Registry) *ToolsHandler {
	return &ToolsHandler{registry: registry}
}

func (h *ToolsHandler) List(w http.ResponseWriter, r *http.Request) {
	all := h.registry.All()
	out := make([]models.ToolInfo, 0, len(all))
	for _, t := range all {
		params := make([]models.ToolParamInfo, 0, len(t.Params))
		for _, p := range t.Params {
			params = append(params, models.ToolParamInfo{
				Name:        p.Name,
				Type:        string(p.Type),
				Description: p.Description,
				Required:    p.Required,
			})
		}
		out = append(out, models.ToolInfo{Name: t.Name, Description: t.Description, Params: params})
	}
	models.WriteJSON(w, http.StatusOK, models.ToolsResponse{Status: "success", Tools: out})
}
