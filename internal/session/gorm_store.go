package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/go-pharmacy/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps sessions in the sessions table.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

func (s *GormStore) Get(ctx context.Context, id string) (*Session, error) {
	var rec models.SessionRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !rec.ExpiresAt.After(s.now()) {
		return nil, ErrNotFound
	}
	return fromRecord(rec)
}

func (s *GormStore) Save(ctx context.Context, sess *Session) error {
	rec, err := toRecord(sess)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "user_json", "draft_images", "expires_at", "updated_at"}),
	}).Create(&rec).Error
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SessionRecord{}).Error
}

// PurgeExpired deletes every session whose expiry is not after now.
func (s *GormStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&models.SessionRecord{})
	return res.RowsAffected, res.Error
}

func toRecord(s *Session) (models.SessionRecord, error) {
	user, err := json.Marshal(s.User)
	if err != nil {
		return models.SessionRecord{}, fmt.Errorf("encode session user: %w", err)
	}
	images, err := json.Marshal(s.DraftImages)
	if err != nil {
		return models.SessionRecord{}, fmt.Errorf("encode draft images: %w", err)
	}
	return models.SessionRecord{
		ID:          s.ID,
		Token:       s.Token,
		UserJSON:    string(user),
		DraftImages: string(images),
		ExpiresAt:   s.ExpiresAt.UTC(),
	}, nil
}

func fromRecord(rec models.SessionRecord) (*Session, error) {
	s := &Session{ID: rec.ID, Token: rec.Token, ExpiresAt: rec.ExpiresAt}
	if rec.UserJSON != "" {
		if err := json.Unmarshal([]byte(rec.UserJSON), &s.User); err != nil {
			return nil, fmt.Errorf("decode session user: %w", err)
		}
	}
	if rec.DraftImages != "" {
		if err := json.Unmarshal([]byte(rec.DraftImages), &s.DraftImages); err != nil {
			return nil, fmt.Errorf("decode draft images: %w", err)
		}
	}
	return s, nil
}
