package user

// UpdateProfileRequest carries profile edits. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Phone       *string `json:"phone"`
	AvatarURL   *string `json:"avatar_url"`
}
