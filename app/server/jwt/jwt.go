package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken 覆盖格式错误、签名不符和过期三种情况，调用方不需要也不应该区分
	ErrInvalidToken = errors.New("invalid token")
	ErrSigning      = errors.New("sign token failed")
	ErrEmptyClaim   = errors.New("claim user id is empty")
)

type JWT struct {
	key    []byte
	now    func() time.Time
	parser *jwt.Parser
}

// Claim 是令牌里携带的身份信息，只有用户 ID ，权限每次请求时从数据库重新读取
type Claim struct {
	UserID string
}

type Option func(*JWT)

// WithClock 替换签发和校验共用的时钟
func WithClock(now func() time.Time) Option {
	return func(j *JWT) {
		j.now = now
	}
}

type claimUser struct {
	ID string `json:"id"`
}

// 载荷格式: { user: { id }, iat, exp }
type tokenClaims struct {
	User claimUser `json:"user"`
	jwt.RegisteredClaims
}

func New(key string, opts ...Option) (*JWT, error) {
	if len(key) == 0 {
		return nil, errors.New("key is empty")
	}

	j := &JWT{
		key: []byte(key),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}

	j.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)

	return j, nil
}

func (j *JWT) Encode(claim Claim, ttl time.Duration) (string, error) {
	if claim.UserID == "" {
		return "", ErrEmptyClaim
	}

	// 创建声明
	issuedAt := j.now()
	claims := tokenClaims{
		User: claimUser{ID: claim.UserID},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}

	// 签名并返回
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSigning, err)
	}

	return tokenString, nil
}

func (j *JWT) Decode(tokenString string) (*Claim, error) {
	if len(tokenString) == 0 {
		return nil, ErrInvalidToken
	}

	var claims tokenClaims
	token, err := j.parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return j.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.User.ID == "" {
		return nil, ErrInvalidToken
	}

	return &Claim{UserID: claims.User.ID}, nil
}
