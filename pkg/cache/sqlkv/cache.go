// Package sqlkv stores cache paths as rows of a single key/value table.
// Batches run inside one database transaction.
package sqlkv

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"github.com/tournamate/rosterd/pkg/cache/errs"
)

// Config holds the connection string of the backing database
type Config struct {
	DSN string `mapstructure:"dsn"`
}

// entry is one stored path
type entry struct {
	Path      string     `gorm:"column:path;primaryKey;size:512"`
	Value     string     `gorm:"column:value;type:text;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
}

func (entry) TableName() string {
	return "kv_entries"
}

type SQLCache struct {
	db *gorm.DB
}

// NewCache opens a postgres connection and migrates the kv table
func NewCache(config *Config) (*SQLCache, error) {
	if config == nil || config.DSN == "" {
		return nil, errors.New("sql cache requires a dsn")
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(config.DSN), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewCacheFromDB(db)
}

// NewCacheFromDB reuses an open gorm handle
func NewCacheFromDB(db *gorm.DB) (*SQLCache, error) {
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv table: %w", err)
	}
	return &SQLCache{db: db}, nil
}

func (c *SQLCache) Get(ctx context.Context, key string) (interface{}, error) {
	var e entry
	err := c.db.WithContext(ctx).
		Where("path = ?", key).
		Where("(expires_at IS NULL OR expires_at > ?)", time.Now()).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.ErrKeyNotFound
		}
		return "", err
	}
	return e.Value, nil
}

func (c *SQLCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return upsert(c.db.WithContext(ctx), key, value, ttl)
}

func (c *SQLCache) Delete(ctx context.Context, key string) error {
	return c.db.WithContext(ctx).Where("path = ?", key).Delete(&entry{}).Error
}

func (c *SQLCache) GetByPattern(ctx context.Context, keyPattern string) (map[string]interface{}, error) {
	var entries []entry
	err := c.db.WithContext(ctx).
		Where("path LIKE ? ESCAPE '\\'", globToLike(keyPattern)).
		Where("(expires_at IS NULL OR expires_at > ?)", time.Now()).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	values := make(map[string]interface{}, len(entries))
	for _, e := range entries {
		values[e.Path] = e.Value
	}
	return values, nil
}

// WriteBatch applies the updates in a single transaction
func (c *SQLCache) WriteBatch(ctx context.Context, updates map[string]*string) error {
	if len(updates) == 0 {
		return nil
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range updates {
			if value == nil {
				if err := tx.Where("path = ?", key).Delete(&entry{}).Error; err != nil {
					return err
				}
				continue
			}
			if err := upsert(tx, key, *value, 0); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *SQLCache) GenerateKey(_ context.Context, _ string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrKeyGeneration, err)
	}
	return id.String(), nil
}

func (c *SQLCache) Disconnect() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func upsert(db *gorm.DB, key, value string, ttl time.Duration) error {
	e := entry{Path: key, Value: value}
	if ttl > 0 {
		expiresAt := time.Now().Add(ttl)
		e.ExpiresAt = &expiresAt
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at"}),
	}).Create(&e).Error
}

// globToLike converts the glob subset used by the stores ('*' and '?') to a LIKE pattern
func globToLike(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteByte('%')
		case '?':
			b.WriteByte('_')
		case '%', '_', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
