package rating

type CreateRatingRequest struct {
	MemberID       int64  `json:"member_id" binding:"required"`
	RatingCategory string `json:"rating_category" binding:"required,oneof=PRODUCT SERVICE GENERAL"`
	ProductID      *int64 `json:"product_id"`
	ServiceID      *int64 `json:"service_id"`

	OverallRating       int  `json:"overall_rating" binding:"required,min=1,max=5"`
	QualityRating       *int `json:"quality_rating" binding:"omitempty,min=1,max=5"`
	CommunicationRating *int `json:"communication_rating" binding:"omitempty,min=1,max=5"`
	ValueRating         *int `json:"value_rating" binding:"omitempty,min=1,max=5"`
	TimelinessRating    *int `json:"timeliness_rating" binding:"omitempty,min=1,max=5"`

	ReviewTitle string `json:"review_title"`
	ReviewText  string `json:"review_text"`
}

type HideRatingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// MemberRatingSummary is the public aggregate block for a member page.
type MemberRatingSummary struct {
	AverageRating  float64 `json:"average_rating"`
	TotalRatings   int     `json:"total_ratings"`
	OneStarCount   int     `json:"one_star_count"`
	TwoStarCount   int     `json:"two_star_count"`
	ThreeStarCount int     `json:"three_star_count"`
	FourStarCount  int     `json:"four_star_count"`
	FiveStarCount  int     `json:"five_star_count"`
}
