package get_catalog

import (
	"net/http"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
)

type Handler struct {
	provider CatalogProvider
	logger   Logger
}

func NewHandler(provider CatalogProvider, logger Logger) *Handler {
	return &Handler{
		provider: provider,
		logger:   logger,
	}
}

// Handle GET /api/v1/catalog
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resp := FromDomainCatalog(h.provider.Catalog(), h.provider.Location())

	h.logger.Info("GET /catalog - Catalog retrieved: services=%d, hours=%d", len(resp.Services), len(resp.Hours))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
