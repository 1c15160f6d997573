package contract

import (
	"context"

	"github.com/emiflair/wazhop/internal/entity"
	"github.com/emiflair/wazhop/internal/repository/specification"
)

type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	Update(ctx context.Context, account *entity.Account) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Account, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Account, error)
	Count(ctx context.Context, specs ...specification.Specification) (int, error)
}
