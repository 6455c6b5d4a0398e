package api

import (
	"time"

	"github.com/MrEthical07/giftauth/pagination"
	"github.com/MrEthical07/giftauth/principal"
)

type loginCodeRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
}

type loginCodeResponse struct {
	LoginCode string `json:"login_code"`
}

type loginRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
	LoginCode   string `json:"login_code" validate:"required,numeric,max=16"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type updateUserRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=64"`
	LastName  *string `json:"last_name" validate:"omitempty,max=64"`
}

// userResponse omits created_at unless the caller is looking at itself.
type userResponse struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	PhoneNumber string     `json:"phone_number"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

func newUserResponse(p principal.Principal, confidential bool) userResponse {
	out := userResponse{
		ID:          p.ID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		PhoneNumber: p.PhoneNumber,
	}
	if confidential {
		created := p.CreatedAt
		out.CreatedAt = &created
	}
	return out
}

type userPage struct {
	Items      []userResponse      `json:"items"`
	Pagination pagination.Metadata `json:"pagination"`
}
