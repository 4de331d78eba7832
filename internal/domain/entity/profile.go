package entity

// BusinessProfile describes the registered household business
// (hộ kinh doanh). Industry is the free-text trade description used for
// tax-bracket classification; the remaining fields are registration data
// shown on reports.
type BusinessProfile struct {
	Name         string `json:"name"`
	TaxID        string `json:"tax_id"`
	Address      string `json:"address"`
	Industry     string `json:"industry"`
	IndustryCode string `json:"industry_code,omitempty"` // VSIC code, 4-5 digits
	OwnerName    string `json:"owner_name"`
}
