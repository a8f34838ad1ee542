package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshelf/internal/infrastructure/storage"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// KVStore 基于MySQL表的键值存储
// 每个key一行，写入使用INSERT ... ON DUPLICATE KEY UPDATE
type KVStore struct {
	db *gorm.DB
}

// NewKVStore 创建MySQL键值存储
func NewKVStore(db *gorm.DB) *KVStore {
	return &KVStore{db: db}
}

var _ storage.KV = (*KVStore)(nil)

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	var model KVEntryModel
	err := s.db.WithContext(ctx).Where("kv_key = ?", key).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", storage.ErrKeyNotFound
		}
		return "", apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "查询存储失败")
	}
	return model.Value, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	model := &KVEntryModel{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"kv_value", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "写入存储失败")
	}
	return nil
}

func (s *KVStore) Del(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Where("kv_key = ?", key).Delete(&KVEntryModel{}).Error
	if err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "删除存储失败")
	}
	return nil
}

func (s *KVStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "获取SQL DB失败")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "数据库不可用")
	}
	return nil
}
