package principal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no principal matches the lookup.
	ErrNotFound = errors.New("principal not found")
	// ErrDuplicatePhone is returned when saving a principal whose phone number is taken.
	ErrDuplicatePhone = errors.New("principal phone number already registered")
	// ErrUnavailable wraps backend failures.
	ErrUnavailable = errors.New("principal store unavailable")
	// ErrInvalid is returned for records missing required fields.
	ErrInvalid = errors.New("invalid principal")
)

// Principal is the authenticated identity a credential resolves to.
type Principal struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// New returns a principal with a fresh UUIDv4 identity.
func New(phoneNumber string) Principal {
	now := time.Now().UTC()
	return Principal{
		ID:          uuid.NewString(),
		PhoneNumber: phoneNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Store is the document-store protocol consumed by the engine.
type Store interface {
	FindByID(ctx context.Context, id string) (Principal, error)
	FindByPhone(ctx context.Context, phoneNumber string) (Principal, error)
	Save(ctx context.Context, p Principal) (Principal, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, offset, limit int) ([]Principal, error)
}

func validate(p Principal) error {
	if p.ID == "" || p.PhoneNumber == "" {
		return ErrInvalid
	}
	return nil
}
