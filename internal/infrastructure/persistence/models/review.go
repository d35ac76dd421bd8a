package models

import (
	"github.com/google/uuid"
	"github.com/reviewhub/backend/internal/domain/review"
)

// ReviewModel is the persistence model for the Review domain entity.
type ReviewModel struct {
	ShopAggregateModel
	ProductID      string     `gorm:"type:varchar(255);not null;index"`
	CustomerName   string     `gorm:"type:varchar(255);not null"`
	CustomerEmail  string     `gorm:"type:varchar(255)"`
	Rating         int        `gorm:"not null"`
	ReviewText     string     `gorm:"type:text;not null"`
	MediaURLs      string     `gorm:"type:text"`
	Approved       bool       `gorm:"not null;default:false;index"`
	ProductGroupID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ReviewModel) TableName() string {
	return "reviews"
}

// ToDomain converts the persistence model to a domain Review entity.
func (m *ReviewModel) ToDomain() *review.Review {
	return &review.Review{
		ShopAggregateRoot: m.shopAggregateRoot(),
		ProductID:         m.ProductID,
		CustomerName:      m.CustomerName,
		CustomerEmail:     m.CustomerEmail,
		Rating:            m.Rating,
		ReviewText:        m.ReviewText,
		MediaURLs:         unmarshalStrings(m.MediaURLs),
		Approved:          m.Approved,
		ProductGroupID:    m.ProductGroupID,
	}
}

// FromDomain populates the persistence model from a domain Review entity.
func (m *ReviewModel) FromDomain(r *review.Review) {
	m.FromDomainShopAggregateRoot(r.ShopAggregateRoot)
	m.ProductID = r.ProductID
	m.CustomerName = r.CustomerName
	m.CustomerEmail = r.CustomerEmail
	m.Rating = r.Rating
	m.ReviewText = r.ReviewText
	m.MediaURLs = marshalStrings(r.MediaURLs)
	m.Approved = r.Approved
	m.ProductGroupID = r.ProductGroupID
}

// ReviewModelFromDomain creates a new persistence model from a domain Review entity.
func ReviewModelFromDomain(r *review.Review) *ReviewModel {
	m := &ReviewModel{}
	m.FromDomain(r)
	return m
}

// ProductGroupModel is the persistence model for the ProductGroup domain entity.
type ProductGroupModel struct {
	ShopAggregateModel
	Name        string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text;not null;default:''"`
	ProductIDs  string `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (ProductGroupModel) TableName() string {
	return "product_groups"
}

// ToDomain converts the persistence model to a domain ProductGroup entity.
func (m *ProductGroupModel) ToDomain() *review.ProductGroup {
	return &review.ProductGroup{
		ShopAggregateRoot: m.shopAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		ProductIDs:        unmarshalStrings(m.ProductIDs),
	}
}

// FromDomain populates the persistence model from a domain ProductGroup entity.
func (m *ProductGroupModel) FromDomain(g *review.ProductGroup) {
	m.FromDomainShopAggregateRoot(g.ShopAggregateRoot)
	m.Name = g.Name
	m.Description = g.Description
	m.ProductIDs = marshalStrings(g.ProductIDs)
}

// ProductGroupModelFromDomain creates a new persistence model from a domain ProductGroup entity.
func ProductGroupModelFromDomain(g *review.ProductGroup) *ProductGroupModel {
	m := &ProductGroupModel{}
	m.FromDomain(g)
	return m
}
