package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	sessionports "github.com/Apurer/foodio-storefront/internal/domains/session/ports"
)

// DefaultCredentialTTL provides the fallback TTL when none is configured.
const DefaultCredentialTTL = 24 * time.Hour

// CredentialStore persists the storefront bearer token in PostgreSQL, one row per profile key.
type CredentialStore struct {
	db  *gorm.DB
	key string
	ttl time.Duration
	now func() time.Time
}

// NewCredentialStore wires a PostgreSQL-backed credential store. Caller owns DB lifecycle.
// An empty key falls back to the fixed default key.
func NewCredentialStore(db *gorm.DB, key string, ttl time.Duration) *CredentialStore {
	key = strings.TrimSpace(key)
	if key == "" {
		key = sessionports.DefaultCredentialKey
	}
	if ttl <= 0 {
		ttl = DefaultCredentialTTL
	}
	return &CredentialStore{db: db, key: key, ttl: ttl, now: time.Now}
}

type credentialRecord struct {
	Key       string     `gorm:"primaryKey;column:key;size:128"`
	Token     string     `gorm:"column:token;size:2048"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (credentialRecord) TableName() string { return "storefront_credentials" }

// Load returns the stored token, or "" when absent or expired.
func (s *CredentialStore) Load(ctx context.Context) (string, error) {
	if err := s.ensureDB(); err != nil {
		return "", err
	}
	var rec credentialRecord
	err := s.db.WithContext(ctx).First(&rec, "key = ?", s.key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if rec.ExpiresAt != nil && !rec.ExpiresAt.After(s.now()) {
		return "", nil
	}
	return rec.Token, nil
}

// Save upserts the token under the store key and refreshes its expiry.
func (s *CredentialStore) Save(ctx context.Context, token string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is required")
	}
	expiry := s.now().Add(s.ttl)
	rec := credentialRecord{Key: s.key, Token: token, ExpiresAt: &expiry}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

// Clear removes the token for the store key. Clearing an absent token is not an error.
func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&credentialRecord{}, "key = ?", s.key).Error
}

// PurgeExpired removes every expired credential across all profile keys. Use for housekeeping or cron.
func (s *CredentialStore) PurgeExpired(ctx context.Context) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at <= ?", s.now()).Delete(&credentialRecord{})
	return result.RowsAffected, result.Error
}

func (s *CredentialStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres credential store not configured")
	}
	return nil
}

var _ sessionports.CredentialStore = (*CredentialStore)(nil)
