package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cobranza/backend/internal/domain/collection"
)

// ManagementModel is the persistence model for the Management aggregate.
type ManagementModel struct {
	TenantAggregateModel
	CustomerID       string                      `gorm:"type:varchar(50);not null;index:idx_management_tenant_customer,priority:2"`
	PortfolioID      uuid.UUID                   `gorm:"type:uuid;not null;index"`
	CampaignID       *uuid.UUID                  `gorm:"type:uuid;index"`
	TypificationCode collection.TypificationCode `gorm:"type:varchar(10);not null;index"`
	Observation      string                      `gorm:"type:text"`
	ContactPhone     string                      `gorm:"type:varchar(50)"`
	PaymentAmount    *decimal.Decimal            `gorm:"type:decimal(18,2)"`
	ManagedAt        time.Time                   `gorm:"not null;index"`
	RegisteredBy     string                      `gorm:"type:varchar(100);not null;index"`
}

// TableName returns the table name for GORM
func (ManagementModel) TableName() string {
	return "managements"
}

// ToDomain converts the persistence model to a domain Management aggregate.
func (m *ManagementModel) ToDomain() *collection.Management {
	mg := &collection.Management{
		CustomerID:       m.CustomerID,
		PortfolioID:      m.PortfolioID,
		CampaignID:       m.CampaignID,
		TypificationCode: m.TypificationCode,
		Observation:      m.Observation,
		ContactPhone:     m.ContactPhone,
		PaymentAmount:    m.PaymentAmount,
		ManagedAt:        m.ManagedAt,
		RegisteredBy:     m.RegisteredBy,
	}
	m.PopulateTenantAggregateRoot(&mg.TenantAggregateRoot)
	return mg
}

// FromDomain populates the persistence model from a domain Management aggregate.
func (m *ManagementModel) FromDomain(mg *collection.Management) {
	m.FromDomainTenantAggregateRoot(mg.TenantAggregateRoot)
	m.CustomerID = mg.CustomerID
	m.PortfolioID = mg.PortfolioID
	m.CampaignID = mg.CampaignID
	m.TypificationCode = mg.TypificationCode
	m.Observation = mg.Observation
	m.ContactPhone = mg.ContactPhone
	m.PaymentAmount = mg.PaymentAmount
	m.ManagedAt = mg.ManagedAt
	m.RegisteredBy = mg.RegisteredBy
}

// ManagementModelFromDomain creates a new persistence model from a domain Management.
func ManagementModelFromDomain(mg *collection.Management) *ManagementModel {
	m := &ManagementModel{}
	m.FromDomain(mg)
	return m
}
