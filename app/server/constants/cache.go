package constants

import "time"

const (
	CacheKeyUserInfo    = "docs:user:info:%s"    // %s -> user id
	CacheKeyUserVersion = "docs:user:version:%s" // %s -> user id
)

const (
	CacheExpireUserInfo = 30 * time.Second
)
