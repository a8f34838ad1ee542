// Package badger 基于Badger的本地磁盘键值存储,默认的持久化后端
// 单进程使用,不需要额外部署服务,重启后书架依然存在
package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/xiebiao/bookshelf/internal/infrastructure/storage"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// KVStore 磁盘键值存储
// Key设计:{prefix}{key},与Redis后端保持一致
type KVStore struct {
	db     *badger.DB
	prefix string
}

var _ storage.KV = (*KVStore)(nil)

// Open 打开(不存在时创建)数据目录
// 1. 关闭Badger自带日志,统一走zap
// 2. SyncWrites保证每次写入都落盘,进程崩溃不丢已保存的书架
// 3. 关闭时压缩L0,加快下次启动
func Open(path, prefix string) (*KVStore, error) {
	if path == "" {
		return nil, fmt.Errorf("Badger数据目录不能为空")
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("打开Badger数据目录失败: %w", err)
	}
	return &KVStore{db: db, prefix: prefix}, nil
}

// Close 关闭数据库,可重复调用
func (s *KVStore) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	return s.db.Close()
}

func (s *KVStore) key(key string) []byte {
	return []byte(s.prefix + key)
}

func (s *KVStore) Get(_ context.Context, key string) (string, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return "", storage.ErrKeyNotFound
		}
		return "", apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "读取Badger失败")
	}
	return string(value), nil
}

func (s *KVStore) Set(_ context.Context, key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key(key), []byte(value))
	})
	if err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "写入Badger失败")
	}
	return nil
}

func (s *KVStore) Del(_ context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(s.key(key))
	})
	if err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "删除Badger key失败")
	}
	return nil
}

// Ping 数据库关闭后不再可用
func (s *KVStore) Ping(context.Context) error {
	if s.db.IsClosed() {
		return apperrors.WrapCode(badger.ErrDBClosed, apperrors.ErrCodeDatabaseError, "Badger已关闭")
	}
	return nil
}
