package settings

// UpdateProfileRequest is the submitted profile section.
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	Website     string `json:"website"`
}

// UpdateStoreRequest is the submitted store section.
type UpdateStoreRequest struct {
	StoreName    string `json:"store_name"`
	SupportEmail string `json:"support_email"`
	Tagline      string `json:"tagline"`
	VacationMode bool   `json:"vacation_mode"`
}

// UpdatePayoutRequest is the submitted payout section. The account number
// must be typed twice.
type UpdatePayoutRequest struct {
	AccountHolder        string `json:"account_holder"`
	AccountNumber        string `json:"account_number" binding:"required"`
	AccountNumberConfirm string `json:"account_number_confirm" binding:"required"`
	RoutingNumber        string `json:"routing_number"`
	BankName             string `json:"bank_name"`
}
