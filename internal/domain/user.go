package domain

import "time"

// AnonymousDisplay is how a donation without a donor is shown
const AnonymousDisplay = "Anonymous"

// User Model
type User struct {
	ID          uint      `gorm:"primaryKey"`                    // Primary key
	Username    string    `gorm:"size:150;uniqueIndex;not null"` // Unique username
	Email       string    `gorm:"size:254;uniqueIndex;not null"` // Unique email address
	Phone       string    `gorm:"size:11;uniqueIndex;not null"`  // Unique Egyptian mobile number
	Password    string    `gorm:"not null" json:"-"`             // Hashed password
	IsStaff     bool      `gorm:"not null;default:false"`        // Staff flag (admin listing only)
	IsSuperuser bool      `gorm:"not null;default:false"`        // Superuser flag (admin listing only)
	DateJoined  time.Time `gorm:"autoCreateTime"`                // Registration timestamp
}

// Display returns the human-readable form used in campaign and donation payloads
func (u User) Display() string {
	return u.Username + " - " + u.Email
}

// DonorDisplay returns the donor's display form, or "Anonymous" for a nil donor
func DonorDisplay(u *User) string {
	if u == nil {
		return AnonymousDisplay
	}
	return u.Display()
}
