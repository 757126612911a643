package directory

import (
	"context"
	"doc-editor/app/server/constants"
	"doc-editor/app/server/models"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var _ Directory = (*Store)(nil)

type Store struct {
	db  *gorm.DB
	rdb *redis.Client // 为 nil 时不使用缓存
	l   *zap.Logger
}

func New(db *gorm.DB, rdb *redis.Client, l *zap.Logger) *Store {
	return &Store{
		db:  db,
		rdb: rdb,
		l:   l,
	}
}

func (s *Store) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	return &user, nil
}

// FindByID 每次都读数据库，管理员身份判断只用这里的结果
func (s *Store) FindByID(ctx context.Context, id string) (*models.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	return s.findByUUID(ctx, uid)
}

// FindProfile 与 FindByID 相同，但会优先使用 redis 缓存，只用于展示
func (s *Store) FindProfile(ctx context.Context, id string) (*models.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if s.rdb == nil {
		return s.findByUUID(ctx, uid)
	}

	// 查询缓存
	cacheKey := fmt.Sprintf(constants.CacheKeyUserInfo, uid.String())
	if cacheBytes, err := s.rdb.Get(ctx, cacheKey).Bytes(); err != nil {
		if !errors.Is(err, redis.Nil) {
			s.l.Error("failed to query cache for user info", zap.String("id", id), zap.Error(err))
		}
	} else {
		var user models.User
		if err = json.Unmarshal(cacheBytes, &user); err != nil {
			s.l.Error("failed to unmarshal user info", zap.String("id", id), zap.ByteString("cacheBytes", cacheBytes), zap.Error(err))
			// 可能是无效的缓存，清理掉
			s.rdb.Del(ctx, cacheKey)
		} else {
			return &user, nil
		}
	}

	// 先记下版本号再查数据库
	version, ok := s.cacheVersion(ctx, uid)

	user, err := s.findByUUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if ok {
		s.cacheUser(ctx, uid, version, user)
	}

	return user, nil
}

func (s *Store) Update(ctx context.Context, id string, fields map[string]any) (*models.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", uid).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	// 先增加版本号再清理缓存，查询途中读到旧数据的请求不会再写回缓存
	if s.rdb != nil {
		if err := s.rdb.Incr(ctx, fmt.Sprintf(constants.CacheKeyUserVersion, uid.String())).Err(); err != nil {
			s.l.Error("failed to bump user info version", zap.String("id", id), zap.Error(err))
		}
		if err := s.rdb.Del(ctx, fmt.Sprintf(constants.CacheKeyUserInfo, uid.String())).Err(); err != nil {
			s.l.Error("failed to invalidate user info cache", zap.String("id", id), zap.Error(err))
		}
	}

	return s.findByUUID(ctx, uid)
}

func (s *Store) ListExcept(ctx context.Context, id string) ([]models.User, error) {
	query := s.db.WithContext(ctx).Model(&models.User{}).Omit("password").Order("created_at ASC")
	if uid, err := uuid.Parse(id); err == nil {
		query = query.Where("id <> ?", uid)
	}

	users := []models.User{}
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var counter int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&counter).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}

	return counter, nil
}

func (s *Store) findByUUID(ctx context.Context, uid uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Omit("password").First(&user, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}

	return &user, nil
}

func (s *Store) cacheVersion(ctx context.Context, uid uuid.UUID) (int64, bool) {
	version, err := s.rdb.Get(ctx, fmt.Sprintf(constants.CacheKeyUserVersion, uid.String())).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		s.l.Error("failed to query user info version", zap.String("id", uid.String()), zap.Error(err))
		return 0, false
	}
	return version, true
}

// cacheUser 只在版本号与读取数据库前一致时写入缓存
func (s *Store) cacheUser(ctx context.Context, uid uuid.UUID, version int64, user *models.User) {
	cacheBytes, err := json.Marshal(user)
	if err != nil {
		s.l.Error("failed to marshal user info", zap.String("id", uid.String()), zap.Error(err))
		return
	}

	versionKey := fmt.Sprintf(constants.CacheKeyUserVersion, uid.String())
	cacheKey := fmt.Sprintf(constants.CacheKeyUserInfo, uid.String())
	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			// 期间有更新，放弃写入
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, cacheKey, cacheBytes, constants.CacheExpireUserInfo)
			return nil
		})
		return err
	}, versionKey)
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		s.l.Error("failed to cache user info", zap.String("id", uid.String()), zap.Error(err))
	}
}
