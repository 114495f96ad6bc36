package customer

import (
	"testing"

	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	t.Run("should create active customer", func(t *testing.T) {
		c, err := NewCustomer(uuid.New(), "CUST-001", "Maria Torres", DocumentDNI, "44556677", "admin")

		require.NoError(t, err)
		assert.Equal(t, "CUST-001", c.CustomerCode)
		assert.Equal(t, "Maria Torres", c.Name)
		assert.Equal(t, DocumentDNI, c.DocumentType)
		assert.True(t, c.Active)
		assert.Equal(t, "admin", c.CreatedBy)
	})

	t.Run("should trim code and name", func(t *testing.T) {
		c, err := NewCustomer(uuid.New(), "  CUST-002 ", "  Jorge Ruiz ", DocumentRUC, " 20100012345 ", "admin")

		require.NoError(t, err)
		assert.Equal(t, "CUST-002", c.CustomerCode)
		assert.Equal(t, "Jorge Ruiz", c.Name)
		assert.Equal(t, "20100012345", c.DocumentNumber)
	})

	t.Run("should reject invalid input", func(t *testing.T) {
		tests := []struct {
			name     string
			code     string
			custName string
			docType  DocumentType
			docNum   string
			wantCode string
		}{
			{"empty code", "", "Maria", DocumentDNI, "44556677", "INVALID_CUSTOMER_CODE"},
			{"blank name", "CUST-001", "   ", DocumentDNI, "44556677", "INVALID_NAME"},
			{"bad document type", "CUST-001", "Maria", "LICENSE", "44556677", "INVALID_DOCUMENT_TYPE"},
			{"empty document number", "CUST-001", "Maria", DocumentDNI, "", "INVALID_DOCUMENT"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewCustomer(uuid.New(), tt.code, tt.custName, tt.docType, tt.docNum, "admin")
				require.Error(t, err)
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, tt.wantCode, domainErr.Code)
			})
		}
	})
}

func TestCustomer_Mutations(t *testing.T) {
	newCust := func(t *testing.T) *Customer {
		t.Helper()
		c, err := NewCustomer(uuid.New(), "CUST-001", "Maria Torres", DocumentDNI, "44556677", "admin")
		require.NoError(t, err)
		return c
	}

	t.Run("should update contact info", func(t *testing.T) {
		c := newCust(t)
		c.UpdateContactInfo("+51 999 888 777", "maria@example.com", "Av. Arequipa 1200")

		assert.Equal(t, "+51 999 888 777", c.Phone)
		assert.Equal(t, "maria@example.com", c.Email)
		assert.Equal(t, "Av. Arequipa 1200", c.Address)
	})

	t.Run("should rename with validation", func(t *testing.T) {
		c := newCust(t)

		require.NoError(t, c.Rename("Maria T. Quispe"))
		assert.Equal(t, "Maria T. Quispe", c.Name)

		err := c.Rename("  ")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_NAME", domainErr.Code)
	})

	t.Run("activate and deactivate are idempotent", func(t *testing.T) {
		c := newCust(t)

		c.Deactivate()
		c.Deactivate()
		assert.False(t, c.Active)

		c.Activate()
		c.Activate()
		assert.True(t, c.Active)
	})
}

func TestDocumentType_IsValid(t *testing.T) {
	for _, d := range []DocumentType{DocumentDNI, DocumentRUC, DocumentCE, DocumentPassport} {
		assert.True(t, d.IsValid(), string(d))
	}
	assert.False(t, DocumentType("LICENSE").IsValid())
	assert.False(t, DocumentType("").IsValid())
}
