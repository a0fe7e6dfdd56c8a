package model

// Startup is a company that can refer founders.
type Startup struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Founder is a user who may have been referred by a startup.
// Referrer is nil when the founder signed up without a referral.
type Founder struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	ReferrerID *int64   `json:"referrer_id"`
	Referrer   *Startup `json:"referrer,omitempty"`
}
