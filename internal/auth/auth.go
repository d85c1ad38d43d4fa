package auth

import "github.com/golang-jwt/jwt/v5"

const (
	RoleShopper = "shopper"
	RoleSeller  = "seller"
)

type Authenticator interface {
	GenerateSessionToken(subject, role string) (string, error)
	ValidateToken(token string) (*jwt.Token, error)
}
