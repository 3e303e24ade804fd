package auth

type RegisterMemberRequest struct {
	PhoneNumber         string `json:"phone_number" binding:"required,min=11"`
	FullName            string `json:"full_name" binding:"required,min=2"`
	Password            string `json:"password" binding:"required,min=8"`
	Email               string `json:"email" binding:"omitempty,email"`
	ProviderType        string `json:"provider_type" binding:"required"`
	Address             string `json:"address"`
	LocalGovernmentArea string `json:"local_government_area" binding:"required"`
	State               string `json:"state" binding:"required"`
}

type RegisterClientRequest struct {
	PhoneNumber         string `json:"phone_number" binding:"required,min=11"`
	FullName            string `json:"full_name" binding:"required,min=2"`
	Password            string `json:"password" binding:"required,min=8"`
	Email               string `json:"email" binding:"omitempty,email"`
	LocalGovernmentArea string `json:"local_government_area" binding:"required"`
	State               string `json:"state" binding:"required"`
}

type LoginRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type RequestPasswordResetRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
}

type UserSummary struct {
	ID                 int64  `json:"id"`
	PhoneNumber        string `json:"phone_number"`
	FullName           string `json:"full_name"`
	Email              string `json:"email,omitempty"`
	UserType           string `json:"user_type"`
	VerificationStatus string `json:"verification_status"`
}
