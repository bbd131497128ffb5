package utils

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/gossip/models"
)

// DBTokenStorage keeps tokens in the browser_tokens table.
type DBTokenStorage struct {
	db *gorm.DB
}

func NewDBTokenStorage(db *gorm.DB) *DBTokenStorage {
	return &DBTokenStorage{db: db}
}

func (s *DBTokenStorage) Load(ctx context.Context, sid string) (string, bool, error) {
	var row models.BrowserToken
	err := s.db.WithContext(ctx).
		Where("sid = ? AND expires_at > ?", sid, time.Now()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Token, true, nil
}

func (s *DBTokenStorage) Save(ctx context.Context, sid, token string, ttl time.Duration) error {
	now := time.Now()
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sid"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"token":      token,
			"expires_at": now.Add(ttl),
			"updated_at": now,
		}),
	}).Create(&models.BrowserToken{SID: sid, Token: token, ExpiresAt: now.Add(ttl)}).Error
}

func (s *DBTokenStorage) Delete(ctx context.Context, sid string) error {
	return s.db.WithContext(ctx).Delete(&models.BrowserToken{}, "sid = ?", sid).Error
}

// PurgeExpired removes rows whose expiry has passed and returns how many went.
func (s *DBTokenStorage) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", time.Now()).Delete(&models.BrowserToken{})
	return res.RowsAffected, res.Error
}
