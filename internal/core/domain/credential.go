package domain

// Credential is the single configured login identity. Immutable after startup;
// the hash is bcrypt and is compared in constant time.
type Credential struct {
	Username     string
	PasswordHash string
}
