package inits

import (
	"doc-editor/app/server/config"
	"doc-editor/app/server/models"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func DB(cfg *config.Config) (db *gorm.DB, err error) {
	// 打开连接，TranslateError 让唯一索引冲突变成 gorm.ErrDuplicatedKey
	if db, err = gorm.Open(postgres.Open(cfg.System.DBConnectionString), &gorm.Config{
		TranslateError: true,
	}); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 迁移
	if err = mig(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 初始化启动数据
	if err = initData(db, cfg.InitAdmin.Email, cfg.InitAdmin.Password); err != nil {
		return nil, fmt.Errorf("failed to init data into database: %w", err)
	}

	// 返回
	return db, nil
}

func mig(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
	)
}

func initData(db *gorm.DB, email string, password string) (err error) {
	// 没有配置初始管理员，跳过
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	// 查询现有记录数量
	var counter int64
	if err = db.Model(&models.User{}).Count(&counter).Error; err != nil {
		return fmt.Errorf("failed to get user count: %w", err)
	} else if counter > 0 {
		return nil
	}

	// 没有任何用户，添加初始管理员
	var passwordHash string
	if passwordHash, err = argon2id.CreateHash(password, argon2id.DefaultParams); err != nil {
		return fmt.Errorf("failed to generate password: %w", err)
	}

	// 插入记录
	if err = db.Create(&models.User{
		Name:     "Admin",
		Email:    email,
		IsAdmin:  true,
		Password: passwordHash,
	}).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	return nil
}
