package models

import "time"

// Subscription tier names
const (
	TierFree    = "free"
	TierBasic   = "basic"
	TierPremium = "premium"
)

// TierLimits describes what a subscription tier entitles a user to.
type TierLimits struct {
	Name             string  `json:"name"`
	MaxTanks         int     `json:"max_tanks"`
	MaxHistoryDays   int     `json:"max_history_days"`
	AnomalyDetection bool    `json:"anomaly_detection"`
	PriceMonthly     float64 `json:"price_monthly"`
	PriceYearly      float64 `json:"price_yearly"`
}

// SubscriptionTiers is the fixed tier table served by the subscription
// endpoint and consulted for entitlement checks.
var SubscriptionTiers = map[string]TierLimits{
	TierFree: {
		Name:             "Free",
		MaxTanks:         1,
		MaxHistoryDays:   7,
		AnomalyDetection: false,
		PriceMonthly:     0.0,
		PriceYearly:      0.0,
	},
	TierBasic: {
		Name:             "Basic",
		MaxTanks:         5,
		MaxHistoryDays:   30,
		AnomalyDetection: true,
		PriceMonthly:     9.99,
		PriceYearly:      99.99,
	},
	TierPremium: {
		Name:             "Premium",
		MaxTanks:         100,
		MaxHistoryDays:   365,
		AnomalyDetection: true,
		PriceMonthly:     29.99,
		PriceYearly:      299.99,
	},
}

// ValidTier reports whether tier is a known subscription tier.
func ValidTier(tier string) bool {
	_, ok := SubscriptionTiers[tier]
	return ok
}

// User is an account holder. PasswordHash and Salt never leave the
// database layer; API responses use PublicUser.
type User struct {
	Username            string     `json:"username"`
	Email               string     `json:"email"`
	FullName            string     `json:"full_name,omitempty"`
	Company             string     `json:"company,omitempty"`
	PasswordHash        string     `json:"-"`
	Salt                string     `json:"-"`
	IsActive            bool       `json:"is_active"`
	IsAdmin             bool       `json:"is_admin"`
	SubscriptionTier    string     `json:"subscription_tier"`
	SubscriptionExpires *time.Time `json:"subscription_expires,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// TierLimits returns the limits for the user's subscription tier,
// falling back to free for unknown values.
func (u *User) TierLimits() TierLimits {
	if limits, ok := SubscriptionTiers[u.SubscriptionTier]; ok {
		return limits
	}
	return SubscriptionTiers[TierFree]
}

// PublicUser is the externally visible subset of User.
type PublicUser struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	FullName         string `json:"full_name,omitempty"`
	Company          string `json:"company,omitempty"`
	SubscriptionTier string `json:"subscription_tier"`
	IsAdmin          bool   `json:"is_admin"`
}

// Public converts a User to its externally visible form.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		Username:         u.Username,
		Email:            u.Email,
		FullName:         u.FullName,
		Company:          u.Company,
		SubscriptionTier: u.SubscriptionTier,
		IsAdmin:          u.IsAdmin,
	}
}
