package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	customerapp "github.com/cobranza/backend/internal/application/customer"
	"github.com/cobranza/backend/internal/infrastructure/persistence"
	"github.com/cobranza/backend/internal/infrastructure/persistence/models"
	"github.com/cobranza/backend/internal/interfaces/http/middleware"
)

func setupCustomerAPI(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.CustomerModel{}))

	service := customerapp.NewCustomerService(
		persistence.NewGormCustomerRepository(db),
		zap.NewNop(),
	)

	engine := gin.New()
	engine.Use(middleware.TenantMiddleware())
	api := engine.Group("/api/v1/crm")
	NewCustomerHandler(service).RegisterRoutes(api)
	return engine
}

func createCustomerFixture(t *testing.T, engine *gin.Engine, tenantID uuid.UUID, code string) map[string]interface{} {
	t.Helper()

	w := doJSON(t, engine, http.MethodPost, "/api/v1/crm/customers", tenantID, gin.H{
		"customer_code":   code,
		"name":            "Juan Perez",
		"document_type":   "DNI",
		"document_number": "45678912",
		"created_by":      "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestCustomerHandlerCreate(t *testing.T) {
	engine := setupCustomerAPI(t)
	tenantID := uuid.New()

	t.Run("creates customer", func(t *testing.T) {
		data := createCustomerFixture(t, engine, tenantID, "CUST-001")
		assert.Equal(t, "CUST-001", data["customer_code"])
		assert.Equal(t, true, data["active"])
	})

	t.Run("rejects duplicate code within tenant", func(t *testing.T) {
		createCustomerFixture(t, engine, tenantID, "CUST-002")
		w := doJSON(t, engine, http.MethodPost, "/api/v1/crm/customers", tenantID, gin.H{
			"customer_code":   "CUST-002",
			"name":            "Otro Cliente",
			"document_type":   "DNI",
			"document_number": "11122233",
		})
		assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/crm/customers", tenantID, gin.H{
			"customer_code": "CUST-003",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCustomerHandlerGetByCode(t *testing.T) {
	engine := setupCustomerAPI(t)
	tenantID := uuid.New()
	createCustomerFixture(t, engine, tenantID, "CUST-010")

	w := doJSON(t, engine, http.MethodGet, "/api/v1/crm/customers/code/CUST-010", tenantID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CUST-010")

	// Code lookup is tenant scoped
	w = doJSON(t, engine, http.MethodGet, "/api/v1/crm/customers/code/CUST-010", uuid.New(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomerHandlerLifecycle(t *testing.T) {
	engine := setupCustomerAPI(t)
	tenantID := uuid.New()
	data := createCustomerFixture(t, engine, tenantID, "CUST-020")
	customerID := data["id"].(string)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/crm/customers/"+customerID+"/deactivate", tenantID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Active bool `json:"active"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Active)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/crm/customers/"+customerID+"/activate", tenantID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Active)
}

func TestCustomerHandlerUpdate(t *testing.T) {
	engine := setupCustomerAPI(t)
	tenantID := uuid.New()
	data := createCustomerFixture(t, engine, tenantID, "CUST-030")
	customerID := data["id"].(string)

	w := doJSON(t, engine, http.MethodPut, "/api/v1/crm/customers/"+customerID, tenantID, gin.H{
		"phone": "987654321",
		"email": "juan@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "987654321")
}

func TestCustomerHandlerList(t *testing.T) {
	engine := setupCustomerAPI(t)
	tenantID := uuid.New()
	createCustomerFixture(t, engine, tenantID, "CUST-040")
	createCustomerFixture(t, engine, tenantID, "CUST-041")

	w := doJSON(t, engine, http.MethodGet, "/api/v1/crm/customers?page=1&page_size=10", tenantID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data []json.RawMessage `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, int64(2), resp.Meta.Total)
}
