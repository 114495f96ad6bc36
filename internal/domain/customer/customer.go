package customer

import (
	"strings"

	"github.com/cobranza/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentType identifies the kind of identity document on file
type DocumentType string

const (
	// DocumentDNI - national identity document
	DocumentDNI DocumentType = "DNI"
	// DocumentRUC - tax registration number
	DocumentRUC DocumentType = "RUC"
	// DocumentCE - foreigner identity card
	DocumentCE DocumentType = "CE"
	// DocumentPassport - passport
	DocumentPassport DocumentType = "PASSPORT"
)

// IsValid checks if the document type is valid
func (d DocumentType) IsValid() bool {
	switch d {
	case DocumentDNI, DocumentRUC, DocumentCE, DocumentPassport:
		return true
	}
	return false
}

// Customer is the debtor on record. CustomerCode is the opaque external key
// managements, payments, and schedules reference; it comes from the upstream
// portfolio assignment and is unique per tenant.
type Customer struct {
	shared.TenantAggregateRoot
	CustomerCode   string       `json:"customer_code"`
	Name           string       `json:"name"`
	DocumentType   DocumentType `json:"document_type"`
	DocumentNumber string       `json:"document_number"`
	Phone          string       `json:"phone,omitempty"`
	Email          string       `json:"email,omitempty"`
	Address        string       `json:"address,omitempty"`
	Active         bool         `json:"active"`
}

// NewCustomer creates a new customer
func NewCustomer(
	tenantID uuid.UUID,
	customerCode string,
	name string,
	documentType DocumentType,
	documentNumber string,
	createdBy string,
) (*Customer, error) {
	if strings.TrimSpace(customerCode) == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_CODE", "Customer code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if !documentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Invalid document type: "+string(documentType))
	}
	if strings.TrimSpace(documentNumber) == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document number cannot be empty")
	}

	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, createdBy),
		CustomerCode:        strings.TrimSpace(customerCode),
		Name:                strings.TrimSpace(name),
		DocumentType:        documentType,
		DocumentNumber:      strings.TrimSpace(documentNumber),
		Active:              true,
	}, nil
}

// UpdateContactInfo updates phone, email, and address
func (c *Customer) UpdateContactInfo(phone, email, address string) {
	c.Phone = phone
	c.Email = email
	c.Address = address
}

// Rename updates the customer's name
func (c *Customer) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	c.Name = strings.TrimSpace(name)
	return nil
}

// Deactivate marks the customer inactive. Idempotent.
func (c *Customer) Deactivate() {
	c.Active = false
}

// Activate marks the customer active. Idempotent.
func (c *Customer) Activate() {
	c.Active = true
}
