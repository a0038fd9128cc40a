package repository

import (
	"context"

	"github.com/ido-nevo/mylinkshortenerproject/internal/model"
)

// LinkRepository - доступ к таблице links. Короткие коды глобально уникальны,
// мутации всегда ограничены парой (id, owner_id).
type LinkRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.Link, error)
	Insert(ctx context.Context, ownerID, url, shortCode string) (*model.Link, error)
	UpdateByIDAndOwner(ctx context.Context, id int64, ownerID, url, shortCode string) (*model.Link, error)
	DeleteByIDAndOwner(ctx context.Context, id int64, ownerID string) (*model.Link, error)
	// ExistsByShortCode проверяет занятость кода по всей таблице.
	// excludeID > 0 исключает одну строку (обновление собственного кода).
	ExistsByShortCode(ctx context.Context, shortCode string, excludeID int64) (bool, error)
	FindByShortCode(ctx context.Context, shortCode string) (*model.Link, error)
}
