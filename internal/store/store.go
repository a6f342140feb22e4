// Package store 以内容寻址的方式把语法树持久化到 SQLite
//
// 每棵树以其 BLAKE2b 指纹为主键保存 JSON 形式，相同结构的树只存一份。
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tangzhangming/jack/internal/ast"
	"github.com/tangzhangming/jack/internal/codec"
)

var (
	// ErrNotFound 指纹对应的树不存在
	ErrNotFound = errors.New("tree not found")
	// ErrCorrupt 存储内容与指纹不符
	ErrCorrupt = errors.New("stored tree does not match its digest")
)

// KindProgram 目前唯一的树种类
const KindProgram = "program"

// Config SQLite 存储配置
type Config struct {
	Path   string
	Logger *zap.Logger
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Path: "./.jack/trees.db",
	}
}

// Entry 列表中的一条记录
type Entry struct {
	Digest    ast.Digest `json:"digest"`
	Kind      string     `json:"kind"`
	Size      int        `json:"size"`
	CreatedAt time.Time  `json:"created_at"`
}

// Store SQLite 树存储
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *zap.Logger
}

// Open 打开（必要时创建）存储
func Open(cfg Config) (*Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// 确保目录存在
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, logger: logger.Named("store")}
	if err := s.initSchema(); err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to initialize schema: %w", err), db.Close())
	}

	s.logger.Debug("store opened", zap.String("path", cfg.Path))
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trees (
		digest TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		body BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_trees_created ON trees(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Put 保存程序并返回其指纹；已存在时不重复写入
func (s *Store) Put(ctx context.Context, p *ast.Program) (ast.Digest, error) {
	if p == nil {
		return ast.Digest{}, errors.New("cannot store nil program")
	}

	digest := ast.Fingerprint(p)
	body, err := codec.MarshalJSON(p)
	if err != nil {
		return digest, fmt.Errorf("failed to encode tree: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO trees (digest, kind, body, created_at)
		VALUES (?, ?, ?, ?)
	`, digest.String(), KindProgram, body, time.Now().UTC())
	if err != nil {
		return digest, fmt.Errorf("failed to store tree: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		s.logger.Debug("tree already stored", zap.Stringer("digest", digest))
	} else {
		s.logger.Info("tree stored", zap.Stringer("digest", digest), zap.Int("size", len(body)))
	}
	return digest, nil
}

// Get 读取指纹对应的程序，不存在时返回 ErrNotFound
func (s *Store) Get(ctx context.Context, d ast.Digest) (*ast.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM trees WHERE digest = ?`, d.String()).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", d, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tree: %w", err)
	}

	p, err := codec.UnmarshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tree %s: %w", d, err)
	}
	if got := ast.Fingerprint(p); got != d {
		s.logger.Warn("digest mismatch", zap.Stringer("digest", d), zap.Stringer("actual", got))
		return nil, fmt.Errorf("%s: %w", d, ErrCorrupt)
	}
	return p, nil
}

// Has 判断指纹是否已存储
func (s *Store) Has(ctx context.Context, d ast.Digest) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM trees WHERE digest = ?`, d.String()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query tree: %w", err)
	}
	return true, nil
}

// List 按存储时间列出全部记录
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT digest, kind, length(body), created_at
		FROM trees
		ORDER BY created_at, digest
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list trees: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e      Entry
			digest string
		)
		if err := rows.Scan(&digest, &e.Kind, &e.Size, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tree: %w", err)
		}
		if e.Digest, err = ast.ParseDigest(digest); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete 删除指纹对应的记录，不存在时返回 ErrNotFound
func (s *Store) Delete(ctx context.Context, d ast.Digest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM trees WHERE digest = ?`, d.String())
	if err != nil {
		return fmt.Errorf("failed to delete tree: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", d, ErrNotFound)
	}

	s.logger.Info("tree deleted", zap.Stringer("digest", d))
	return nil
}

// Close 关闭数据库
func (s *Store) Close() error {
	return s.db.Close()
}
