package domain

import "time"

// Product and Service are the rateable listings owned by members. Their
// aggregates follow the same recompute rule as MemberProfile.

type Product struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	MemberID      int64     `json:"member_id" gorm:"index;not null"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Unit          string    `json:"unit,omitempty"`
	PhotoURL      *string   `json:"photo_url,omitempty"`
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	AverageRating float64   `json:"average_rating"`
	TotalRatings  int       `json:"total_ratings"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "products" }

type Service struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	MemberID      int64     `json:"member_id" gorm:"index;not null"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	PriceType     string    `json:"price_type,omitempty"`
	PhotoURL      *string   `json:"photo_url,omitempty"`
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	AverageRating float64   `json:"average_rating"`
	TotalRatings  int       `json:"total_ratings"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Service) TableName() string { return "services" }
