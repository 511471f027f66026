package user

import "time"

// User is the chat-facing slice of the account record. Identity issuance lives
// elsewhere; this core only maintains the durable presence shadow and the
// opaque public key used for client-side encryption.
type User struct {
	ID         string
	PublicKey  *string
	IsOnline   bool
	LastActive *time.Time
}
