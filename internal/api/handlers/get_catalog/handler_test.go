package get_catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BarberBooking/internal/service/slots"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
)

func TestHandler(t *testing.T) {
	loc, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)

	log := logger.NewNop()
	registry := slots.NewRegistry(memory.NewStore(), nil, domain.DefaultCatalog(), loc, nil, log)
	h := NewHandler(registry, log)

	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp CatalogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.DefaultServices, resp.Services)
	assert.Equal(t, "15:00", resp.Hours[0])
	assert.Equal(t, "19:00", resp.Hours[len(resp.Hours)-1])
	assert.Equal(t, "America/Santiago", resp.Timezone)
}
