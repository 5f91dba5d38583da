package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleRider  UserRole = "rider"
	RoleDriver UserRole = "driver"
	RoleAdmin  UserRole = "admin"
)

type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountInactive  AccountStatus = "inactive"
	AccountSuspended AccountStatus = "suspended"
	AccountDeleted   AccountStatus = "deleted"
)

// VerificationStatus is the KYC state of a driver.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

type User struct {
	Base
	Firstname       string        `db:"firstname"`
	Lastname        string        `db:"lastname"`
	Email           string        `db:"email"`
	Phone           string        `db:"phone"`
	PasswordHash    string        `db:"password_hash"`
	Role            UserRole      `db:"role"`
	ProfileImageURL *string       `db:"profile_image_url"`
	EmailVerified   bool          `db:"email_verified"`
	PhoneVerified   bool          `db:"phone_verified"`
	AccountStatus   AccountStatus `db:"account_status"`
	IsAvailable     bool          `db:"is_available"`
	LastLoginAt     *time.Time    `db:"last_login_at"`

	// driver only
	LicenseNumber      *string             `db:"license_number"`
	LicenseURL         *string             `db:"license_url"`
	LicenseExpiryDate  *time.Time          `db:"license_expiry_date"`
	AadharNumber       *string             `db:"aadhar_number"`
	AadharURL          *string             `db:"aadhar_url"`
	VerificationStatus *VerificationStatus `db:"verification_status"`
	VerificationNotes  *string             `db:"verification_notes"`
	VerifiedBy         *uuid.UUID          `db:"verified_by"`
	VerifiedAt         *time.Time          `db:"verified_at"`
}

func (u *User) IsDriver() bool {
	return u.Role == RoleDriver
}

func (u *User) IsActive() bool {
	return u.AccountStatus == AccountActive
}

func (u *User) FullName() string {
	return u.Firstname + " " + u.Lastname
}

// IsApprovedDriver reports whether the driver passed KYC.
func (u *User) IsApprovedDriver() bool {
	return u.IsDriver() && u.VerificationStatus != nil && *u.VerificationStatus == VerificationApproved
}
