package domain

import "time"

// MemberProfile holds the denormalized rating aggregates. They always
// equal the aggregate over currently ACTIVE ratings; every rating event
// recomputes them instead of patching increments.
type MemberProfile struct {
	ID                  int64   `json:"id" gorm:"primaryKey"`
	UserID              int64   `json:"user_id" gorm:"uniqueIndex;not null"`
	ProviderType        string  `json:"provider_type"`
	Address             *string `json:"address,omitempty"`
	LocalGovernmentArea string  `json:"local_government_area"`
	State               string  `json:"state"`

	AverageRating  float64 `json:"average_rating"`
	TotalRatings   int     `json:"total_ratings"`
	OneStarCount   int     `json:"one_star_count"`
	TwoStarCount   int     `json:"two_star_count"`
	ThreeStarCount int     `json:"three_star_count"`
	FourStarCount  int     `json:"four_star_count"`
	FiveStarCount  int     `json:"five_star_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MemberProfile) TableName() string { return "member_profiles" }

type ClientProfile struct {
	ID                  int64     `json:"id" gorm:"primaryKey"`
	UserID              int64     `json:"user_id" gorm:"uniqueIndex;not null"`
	State               string    `json:"state"`
	LocalGovernmentArea string    `json:"local_government_area"`
	NinPhotoURL         *string   `json:"nin_photo_url,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

func (ClientProfile) TableName() string { return "client_profiles" }
