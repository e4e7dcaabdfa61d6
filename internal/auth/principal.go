package auth

import (
	"time"

	"dayzone/internal/model"
)

// Principal is the authenticated caller: the freshly loaded user plus the
// token it presented.
type Principal struct {
	UserID    uint
	Username  string
	Role      model.Role
	TokenID   string
	ExpiresAt time.Time
}

// NewPrincipal combines verified claims with the persisted user. Role always
// comes from the user record, never from the token.
func NewPrincipal(claims *Claims, user *model.User) Principal {
	p := Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
	if claims != nil {
		p.TokenID = claims.ID
		if claims.ExpiresAt != nil {
			p.ExpiresAt = claims.ExpiresAt.Time
		}
	}
	return p
}
