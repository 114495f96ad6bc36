package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	paymentapp "github.com/cobranza/backend/internal/application/payment"
	"github.com/cobranza/backend/internal/infrastructure/persistence"
	"github.com/cobranza/backend/internal/infrastructure/persistence/models"
	"github.com/cobranza/backend/internal/interfaces/http/middleware"
)

func setupScheduleAPI(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.PaymentScheduleModel{},
		&models.InstallmentModel{},
		&models.InstallmentStatusHistoryModel{},
	))

	service := paymentapp.NewScheduleService(
		persistence.NewGormScheduleRepository(db),
		persistence.NewGormHistoryRepository(db),
		zap.NewNop(),
	)

	engine := gin.New()
	engine.Use(middleware.TenantMiddleware())
	api := engine.Group("/api/v1/payment")
	NewScheduleHandler(service).RegisterRoutes(api)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, tenantID uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tenantID != uuid.Nil {
		req.Header.Set("X-Tenant-ID", tenantID.String())
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func createScheduleFixture(t *testing.T, engine *gin.Engine, tenantID uuid.UUID) map[string]interface{} {
	t.Helper()

	w := doJSON(t, engine, http.MethodPost, "/api/v1/payment/schedules", tenantID, gin.H{
		"customer_id":   "CUST-100",
		"management_id": uuid.New().String(),
		"total_amount":  "300.00",
		"installments":  3,
		"start_date":    "2025-02-01T00:00:00Z",
		"registered_by": "asesor1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestScheduleHandlerCreate(t *testing.T) {
	engine := setupScheduleAPI(t)
	tenantID := uuid.New()

	t.Run("creates evenly split schedule", func(t *testing.T) {
		data := createScheduleFixture(t, engine, tenantID)

		assert.Equal(t, "CUST-100", data["customer_id"])
		assert.Equal(t, "EVEN_SPLIT", data["schedule_type"])
		assert.Equal(t, float64(3), data["installment_count"])
		installments := data["installments"].([]interface{})
		assert.Len(t, installments, 3)
	})

	t.Run("rejects missing tenant header", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/payment/schedules", uuid.Nil, gin.H{
			"customer_id": "CUST-100",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects invalid body", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/payment/schedules", tenantID, gin.H{
			"customer_id": "CUST-100",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/payment/schedules", tenantID, gin.H{
			"customer_id":   "CUST-100",
			"management_id": uuid.New().String(),
			"total_amount":  "-10.00",
			"installments":  3,
			"start_date":    "2025-02-01T00:00:00Z",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestScheduleHandlerGet(t *testing.T) {
	engine := setupScheduleAPI(t)
	tenantID := uuid.New()
	data := createScheduleFixture(t, engine, tenantID)
	scheduleID := data["id"].(string)

	t.Run("returns schedule with installments", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/api/v1/payment/schedules/"+scheduleID, tenantID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), scheduleID)
	})

	t.Run("404 for unknown schedule", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/api/v1/payment/schedules/"+uuid.New().String(), tenantID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("404 for other tenant", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/api/v1/payment/schedules/"+scheduleID, uuid.New(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("400 for malformed ID", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/api/v1/payment/schedules/not-a-uuid", tenantID, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestScheduleHandlerInstallmentPayment(t *testing.T) {
	engine := setupScheduleAPI(t)
	tenantID := uuid.New()
	data := createScheduleFixture(t, engine, tenantID)
	scheduleID := data["id"].(string)

	payPath := fmt.Sprintf("/api/v1/payment/schedules/%s/installments/pay", scheduleID)

	t.Run("marks installment paid", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, payPath, tenantID, gin.H{
			"sequence":      1,
			"registered_by": "asesor1",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Data struct {
				PaidCount    int `json:"paid_count"`
				Installments []struct {
					Sequence int    `json:"sequence"`
					Status   string `json:"status"`
				} `json:"installments"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Data.PaidCount)
		assert.Equal(t, "COMPLETED", resp.Data.Installments[0].Status)
	})

	t.Run("422 when paying the same installment twice", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, payPath, tenantID, gin.H{
			"sequence": 1,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	})

	t.Run("404 for unknown sequence", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, payPath, tenantID, gin.H{
			"sequence": 99,
		})
		assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})
}

func TestScheduleHandlerCancel(t *testing.T) {
	engine := setupScheduleAPI(t)
	tenantID := uuid.New()
	data := createScheduleFixture(t, engine, tenantID)
	scheduleID := data["id"].(string)

	cancelPath := fmt.Sprintf("/api/v1/payment/schedules/%s/cancel", scheduleID)

	w := doJSON(t, engine, http.MethodPost, cancelPath, tenantID, gin.H{
		"observation":   "customer reneged",
		"registered_by": "supervisor1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Active bool `json:"active"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Active)

	// Cancelling again is a no-op, not an error
	w = doJSON(t, engine, http.MethodPost, cancelPath, tenantID, gin.H{})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestScheduleHandlerHistory(t *testing.T) {
	engine := setupScheduleAPI(t)
	tenantID := uuid.New()
	data := createScheduleFixture(t, engine, tenantID)
	scheduleID := data["id"].(string)

	// One payment on top of the initial PENDING entries
	w := doJSON(t, engine, http.MethodPost,
		fmt.Sprintf("/api/v1/payment/schedules/%s/installments/pay", scheduleID),
		tenantID, gin.H{"sequence": 1, "registered_by": "asesor1"})
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("full history", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet,
			fmt.Sprintf("/api/v1/payment/schedules/%s/history", scheduleID), tenantID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data []struct {
				Status string `json:"status"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		// 3 PENDING entries plus 1 COMPLETED
		assert.Len(t, resp.Data, 4)
	})

	t.Run("filtered by status", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet,
			fmt.Sprintf("/api/v1/payment/schedules/%s/history?status=COMPLETED", scheduleID), tenantID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data []struct {
				Status string `json:"status"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "COMPLETED", resp.Data[0].Status)
	})
}

func TestScheduleHandlerList(t *testing.T) {
	engine := setupScheduleAPI(t)
	tenantID := uuid.New()
	createScheduleFixture(t, engine, tenantID)
	createScheduleFixture(t, engine, tenantID)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/payment/schedules?page=1&page_size=10", tenantID, nil)
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

	// Other tenants see nothing
	w = doJSON(t, engine, http.MethodGet, "/api/v1/payment/schedules", uuid.New(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)
}
