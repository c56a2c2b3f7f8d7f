package repo

import (
	"context"

	"gorm.io/gorm"

	"fitdesk/internal/domain"
	"fitdesk/internal/feature/account"
)

// Store is the gorm-backed domain.Store. One instance wraps the shared
// connection pool; Tx hands out instances bound to a transaction.
type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Accounts() domain.AccountRepository { return NewAccountRepo(s.db) }
func (s *Store) Profiles() domain.ProfileRepository { return NewProfileRepo(s.db) }

func (s *Store) Tx(ctx context.Context, fn func(domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(account.Models()...); err != nil {
		return err
	}
	if q := emailCollationSQL(db.Dialector.Name()); q != "" {
		return db.Exec(q).Error
	}
	return nil
}

// emailCollationSQL pins users.email to a binary collation on dialects whose
// default one folds case. Postgres and SQLite already compare exactly.
func emailCollationSQL(dialect string) string {
	if dialect != "mysql" {
		return ""
	}
	return "ALTER TABLE users MODIFY email VARCHAR(191) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL"
}
