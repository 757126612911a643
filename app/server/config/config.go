package config

type Config struct {
	System struct {
		IsProd                bool     // 是否为生产环境
		Listen                string   // 监听地址
		DBConnectionString    string   // Postgres 数据库的连接字符串
		RedisConnectionString string   // Redis 数据库的连接字符串，留空则不使用缓存
		CORSOrigins           []string // 允许跨域访问的前端地址
	}
	Security struct {
		SignatureSecretKey string // 签名密钥，用于产生签名（例如 JWT ），更新会导致旧有会话失效
	}
	InitAdmin struct {
		Email    string // 首次启动时创建的管理员邮箱
		Password string // 首次启动时创建的管理员密码
	}
}
