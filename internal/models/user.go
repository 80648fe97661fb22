package models

// User is an account of the ledger. It is never updated or deleted once created.
type User struct {
	ID           int64
	UserName     string
	PasswordHash []byte
}
