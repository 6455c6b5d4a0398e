package principal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrUnknownDriver is returned by Open for unregistered driver names.
var ErrUnknownDriver = errors.New("unknown principal store driver")

var dialectors = map[string]func(dsn string) gorm.Dialector{
	"sqlite":   sqlite.Open,
	"postgres": postgres.Open,
}

// Open connects to the principal database using a registered driver
// ("sqlite" or "postgres").
func Open(driver, dsn string) (*gorm.DB, error) {
	open, ok := dialectors[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	db, err := gorm.Open(open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return db, nil
}

type principalRecord struct {
	ID          string `gorm:"primaryKey;size:36"`
	PhoneNumber string `gorm:"uniqueIndex;size:32;not null"`
	FirstName   string `gorm:"size:128"`
	LastName    string `gorm:"size:128"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (principalRecord) TableName() string {
	return "principals"
}

func toRecord(p Principal) principalRecord {
	return principalRecord{
		ID:          p.ID,
		PhoneNumber: p.PhoneNumber,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r principalRecord) principal() Principal {
	return Principal{
		ID:          r.ID,
		PhoneNumber: r.PhoneNumber,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

// GormStore is a [Store] backed by a gorm database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps db. Call AutoMigrate before first use on a fresh database.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates or updates the principals table.
func (s *GormStore) AutoMigrate() error {
	if err := s.db.AutoMigrate(&principalRecord{}); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *GormStore) FindByID(ctx context.Context, id string) (Principal, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *GormStore) FindByPhone(ctx context.Context, phoneNumber string) (Principal, error) {
	return s.first(ctx, "phone_number = ?", phoneNumber)
}

func (s *GormStore) first(ctx context.Context, query string, arg string) (Principal, error) {
	var rec principalRecord
	if err := s.db.WithContext(ctx).Where(query, arg).First(&rec).Error; err != nil {
		return Principal{}, translate(err)
	}
	return rec.principal(), nil
}

// Save inserts or replaces p inside a transaction, keeping the original
// creation time and enforcing phone-number uniqueness.
func (s *GormStore) Save(ctx context.Context, p Principal) (Principal, error) {
	if err := validate(p); err != nil {
		return Principal{}, err
	}

	var saved principalRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner principalRecord
		err := tx.Where("phone_number = ?", p.PhoneNumber).First(&owner).Error
		switch {
		case err == nil && owner.ID != p.ID:
			return ErrDuplicatePhone
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		now := time.Now().UTC()
		rec := toRecord(p)
		var existing principalRecord
		err = tx.Where("id = ?", p.ID).First(&existing).Error
		switch {
		case err == nil:
			rec.CreatedAt = existing.CreatedAt
		case errors.Is(err, gorm.ErrRecordNotFound):
			if rec.CreatedAt.IsZero() {
				rec.CreatedAt = now
			}
		default:
			return err
		}
		rec.UpdatedAt = now

		if err := tx.Save(&rec).Error; err != nil {
			return err
		}
		saved = rec
		return nil
	})
	if err != nil {
		return Principal{}, translate(err)
	}
	return saved.principal(), nil
}

// Delete removes the principal with the given ID. Missing IDs are ignored.
func (s *GormStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&principalRecord{}).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (s *GormStore) Count(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&principalRecord{}).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return int(n), nil
}

func (s *GormStore) List(ctx context.Context, offset, limit int) ([]Principal, error) {
	if limit <= 0 {
		return []Principal{}, nil
	}
	if offset < 0 {
		offset = 0
	}

	var recs []principalRecord
	err := s.db.WithContext(ctx).
		Order("created_at asc, id asc").
		Offset(offset).
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, translate(err)
	}

	out := make([]Principal, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.principal())
	}
	return out, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, ErrDuplicatePhone), errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicatePhone
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
