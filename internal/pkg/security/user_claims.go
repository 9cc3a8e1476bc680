package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultJWTSecret         = "Mintora"
	DefaultJWTIssuer         = "Mintora"
	DefaultJWTExpirationTime = time.Hour * 24
)

// CreatorClaims Token 中携带的创作者身份，CreatorID 为钱包地址
type CreatorClaims struct {
	CreatorID string   `json:"creator_id"`
	Roles     []string `json:"roles"`
	jwt.RegisteredClaims
}

// HasRole 判断是否拥有任一角色
func (c *CreatorClaims) HasRole(roles ...string) bool {
	for _, required := range roles {
		for _, r := range c.Roles {
			if r == required {
				return true
			}
		}
	}
	return false
}
