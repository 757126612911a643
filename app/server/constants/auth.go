package constants

import "time"

const (
	AuthTokenHeader   = "x-auth-token"
	AuthTokenDuration = 3600 * time.Second // 令牌有效期，签发后一小时自动失效
	AuthContextKey    = "user"
)
