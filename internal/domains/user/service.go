package user

import "context"

// Service authenticates API accounts.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}
