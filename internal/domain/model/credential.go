package model

import "time"

// Credential is the delegated token pair obtained from the provider. It is an
// immutable value once issued: this system never refreshes or mutates it, and
// it is only usable with the same OAuth client configuration that obtained it.
type Credential struct {
	AccessToken  string
	TokenType    string
	RefreshToken string
	Expiry       time.Time
}
