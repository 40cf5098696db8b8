package session

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_api/internal/models"
)

var ErrNoSession = errors.New("session not found")

// Store keeps server-side session state. Get returns ErrNoSession for
// unknown or expired ids.
type Store interface {
	Save(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

type GormStore struct {
	DB  *gorm.DB
	Now func() time.Time
}

func (s *GormStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *GormStore) Save(ctx context.Context, sess *models.Session) error {
	db := s.DB.WithContext(ctx)
	if err := db.Where("expires_at < ?", s.now().Unix()).Delete(&models.Session{}).Error; err != nil {
		return err
	}
	return db.Create(sess).Error
}

func (s *GormStore) Get(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	if sess.ExpiresAt < s.now().Unix() {
		return nil, ErrNoSession
	}
	return &sess, nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error
}
