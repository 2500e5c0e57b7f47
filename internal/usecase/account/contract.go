package account

import (
	"context"

	domacc "github.com/kailas-cloud/localmaps/internal/domain/account"
)

// Repository defines the storage contract for users and sessions.
type Repository interface {
	CreateUser(ctx context.Context, u domacc.User) error
	UserByUsername(ctx context.Context, username string) (domacc.User, error)
	UserByID(ctx context.Context, id string) (domacc.User, error)
	CreateSession(ctx context.Context, s domacc.Session) error
	Session(ctx context.Context, token string) (domacc.Session, error)
	DeleteSession(ctx context.Context, token string) error
}
