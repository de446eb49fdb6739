package repository

import (
	"context"

	"github.com/jaekwang-park/plantcare-api/internal/model"
)

type GardenerRepository interface {
	// GetOrCreate provisions the gardener on first login. The nickname only
	// fills an empty one; a nickname set through the profile is kept.
	GetOrCreate(ctx context.Context, cognitoSub, email, nickname string) (model.Gardener, error)
	GetByCognitoSub(ctx context.Context, cognitoSub string) (model.Gardener, error)
	GetByID(ctx context.Context, gardenerID string) (model.Gardener, error)
	Update(ctx context.Context, gardener model.Gardener) (model.Gardener, error)
}
