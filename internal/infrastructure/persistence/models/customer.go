package models

import (
	"github.com/cobranza/backend/internal/domain/customer"
)

// CustomerModel is the persistence model for the Customer aggregate.
type CustomerModel struct {
	TenantAggregateModel
	CustomerCode   string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_customer_tenant_code,priority:2"`
	Name           string                `gorm:"type:varchar(200);not null"`
	DocumentType   customer.DocumentType `gorm:"type:varchar(20);not null"`
	DocumentNumber string                `gorm:"type:varchar(50);not null;index"`
	Phone          string                `gorm:"type:varchar(50)"`
	Email          string                `gorm:"type:varchar(200)"`
	Address        string                `gorm:"type:text"`
	Active         bool                  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer aggregate.
func (m *CustomerModel) ToDomain() *customer.Customer {
	c := &customer.Customer{
		CustomerCode:   m.CustomerCode,
		Name:           m.Name,
		DocumentType:   m.DocumentType,
		DocumentNumber: m.DocumentNumber,
		Phone:          m.Phone,
		Email:          m.Email,
		Address:        m.Address,
		Active:         m.Active,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Customer aggregate.
func (m *CustomerModel) FromDomain(c *customer.Customer) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.CustomerCode = c.CustomerCode
	m.Name = c.Name
	m.DocumentType = c.DocumentType
	m.DocumentNumber = c.DocumentNumber
	m.Phone = c.Phone
	m.Email = c.Email
	m.Address = c.Address
	m.Active = c.Active
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer.
func CustomerModelFromDomain(c *customer.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
