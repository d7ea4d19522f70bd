package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"faceauth/internal/config"
	"faceauth/internal/entity/db"
	"faceauth/internal/model/sql"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const (
	DBTypeMySQL    = "mysql"
	DBTypeSQLite   = "sqlite"
	DBTypePostgres = "postgres"
)

// InitRepository 根据配置打开数据库、迁移表结构并返回仓库。
// 返回的 close 函数负责释放连接池。
func InitRepository(cfg *config.Config) (Repository, func() error, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, nil, err
	}
	return OpenRepository(dialector)
}

// OpenRepository 使用给定的 dialector 创建仓库（测试中用于 sqlite 内存库）
func OpenRepository(dialector gorm.Dialector) (Repository, func() error, error) {
	gdb, err := openGormDB(dialector)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", dialector.Name(), err)
	}

	if err := migrateSchema(gdb); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, nil, err
	}
	return sql.NewGormRepository(gdb), sqlDB.Close, nil
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.DBType)) {
	case DBTypeMySQL:
		dsn := cfg.DSNURL
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				cfg.DBUser, cfg.DBPassword, cfg.DBAddr, cfg.DBPort, cfg.DBName)
		}
		return mysql.Open(dsn), nil
	case DBTypePostgres:
		dsn := cfg.DSNURL
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
				cfg.DBAddr, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
		}
		return postgres.Open(dsn), nil
	case DBTypeSQLite:
		filePath := cfg.DBPath
		if filePath == "" {
			filePath = "datas/faceauth.db"
		}
		// SQLite 会自动创建 .db 文件，但目录必须已存在
		if dir := filepath.Dir(filePath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create directory %q: %w", dir, err)
			}
		}
		return sqlite.Open(filePath), nil
	case "":
		return nil, fmt.Errorf("database type is not configured")
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
	}
}

func openGormDB(dialector gorm.Dialector) (*gorm.DB, error) {
	gormLogger := logger.New(
		logrus.StandardLogger(),
		logger.Config{
			SlowThreshold:             time.Second * 2,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return gdb, nil
}

func migrateSchema(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&db.User{},
		&db.LoginLog{},
	)
}
