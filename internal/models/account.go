package models

// Account roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Account is the business profile of a person who may access paid content.
// It is created lazily: either by a prior sign-up flow or provisioned at
// payment time when no row exists for the payer email.
type Account struct {
	// ID is the identity id the profile is linked to (uuid string).
	ID string `json:"id" gorm:"column:id;primaryKey"`
	// Email is the account email, stored lower-cased.
	Email string `json:"email" gorm:"column:email;unique;not null"`
	// FullName is the display name, refreshed from payment metadata.
	FullName string `json:"full_name" gorm:"column:full_name"`
	// Phone is the contact phone, refreshed from payment metadata.
	Phone string `json:"phone" gorm:"column:phone"`
	// Paid is the entitlement flag granting access to gated content.
	Paid bool `json:"paid" gorm:"column:paid;index"`
	// Role is the account role (customer, admin).
	Role string `json:"role" gorm:"column:role;default:customer"`
	// UpdatedAt is the date of the last profile mutation.
	UpdatedAt int64 `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Account) TableName() string { return "profiles" }

// Identity is an authentication principal held by the auth service.
// A person may have an Identity without a profile row (a prior partial
// failure); the resolver checks both layers before provisioning.
type Identity struct {
	// ID is the unique identifier for the identity (uuid string).
	ID string `json:"id"`
	// Email is the login email, lower-cased.
	Email string `json:"email"`
	// EmailConfirmed marks the email as verified. Identities provisioned at
	// payment time are created confirmed: payment proof substitutes for a
	// verification email.
	EmailConfirmed bool `json:"email_confirmed"`
	// FullName is seeded from payment metadata on provisioning.
	FullName string `json:"full_name"`
	// Phone is seeded from payment metadata on provisioning.
	Phone string `json:"phone"`
}
