package credentials

import "time"

// User is the account row the credential service manages.
type User struct {
	ID    string
	Email string
	Name  string
	Role  string
}

type Credential struct {
	ID           string
	UserID       string
	PasswordHash string
	HashVersion  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
