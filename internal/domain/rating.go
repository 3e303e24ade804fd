package domain

import "time"

type RatingStatus string

const (
	RatingActive  RatingStatus = "ACTIVE"
	RatingHidden  RatingStatus = "HIDDEN"
	RatingRemoved RatingStatus = "REMOVED"
)

type RatingCategory string

const (
	RatingCategoryProduct RatingCategory = "PRODUCT"
	RatingCategoryService RatingCategory = "SERVICE"
	RatingCategoryGeneral RatingCategory = "GENERAL"
)

type Rating struct {
	ID             int64          `json:"id" gorm:"primaryKey"`
	ClientID       int64          `json:"client_id" gorm:"index;not null"`
	MemberID       int64          `json:"member_id" gorm:"index;not null"`
	RatingCategory RatingCategory `json:"rating_category"`
	ProductID      *int64         `json:"product_id,omitempty" gorm:"index"`
	ServiceID      *int64         `json:"service_id,omitempty" gorm:"index"`

	OverallRating       int  `json:"overall_rating"`
	QualityRating       *int `json:"quality_rating,omitempty"`
	CommunicationRating *int `json:"communication_rating,omitempty"`
	ValueRating         *int `json:"value_rating,omitempty"`
	TimelinessRating    *int `json:"timeliness_rating,omitempty"`

	ReviewTitle string `json:"review_title,omitempty"`
	ReviewText  string `json:"review_text,omitempty"`

	Status          RatingStatus `json:"status" gorm:"index;default:ACTIVE"`
	HiddenByAdminID *int64       `json:"-"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (Rating) TableName() string { return "ratings" }
