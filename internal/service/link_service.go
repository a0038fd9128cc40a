package service

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/ido-nevo/mylinkshortenerproject/internal/cache"
	apperrors "github.com/ido-nevo/mylinkshortenerproject/internal/errors"
	"github.com/ido-nevo/mylinkshortenerproject/internal/model"
	"github.com/ido-nevo/mylinkshortenerproject/internal/repository"
	"github.com/ido-nevo/mylinkshortenerproject/internal/utils"
)

// DefaultMaxAllocAttempts - предохранитель аллокатора от бесконечного перебора
const DefaultMaxAllocAttempts = 1000

// LinkService - оркестратор мутаций: auth-check -> validate -> uniqueness ->
// persist -> cache-invalidate. Все ожидаемые сбои возвращаются типизированными
// ошибками, неожиданные сбои хранилища нормализуются здесь же.
type LinkService struct {
	repo             repository.LinkRepository
	cache            cache.Cache
	log              *zap.SugaredLogger
	maxAllocAttempts int
}

func NewLinkService(repo repository.LinkRepository, c cache.Cache, log *zap.SugaredLogger, maxAllocAttempts int) *LinkService {
	if maxAllocAttempts <= 0 {
		maxAllocAttempts = DefaultMaxAllocAttempts
	}
	return &LinkService{
		repo:             repo,
		cache:            c,
		log:              log,
		maxAllocAttempts: maxAllocAttempts,
	}
}

// Create сохраняет новую ссылку. Если код не задан, аллокатор выводит его из
// адреса назначения.
func (s *LinkService) Create(ctx context.Context, ownerID string, req *model.CreateLinkRequest) (*model.Link, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	destinationURL := utils.SanitizeInput(req.URL)
	shortCode := utils.SanitizeInput(req.ShortCode)

	if ve := utils.ValidateLinkInput(destinationURL, shortCode, false); ve != nil {
		return nil, ve
	}

	if shortCode == "" {
		allocated, err := s.allocateShortCode(ctx, destinationURL)
		if err != nil {
			return nil, err
		}
		shortCode = allocated
	} else {
		taken, err := s.repo.ExistsByShortCode(ctx, shortCode, 0)
		if err != nil {
			return nil, s.persistenceFailure("create", err)
		}
		if taken {
			return nil, apperrors.ErrShortCodeTaken
		}
	}

	link, err := s.repo.Insert(ctx, ownerID, destinationURL, shortCode)
	if errors.Is(err, apperrors.ErrShortCodeTaken) {
		return nil, err
	}
	if err != nil {
		return nil, s.persistenceFailure("create", err)
	}

	s.invalidateListing(ctx, ownerID)

	return link, nil
}

// Update перезаписывает адрес и код существующей ссылки. Код обязателен,
// собственный текущий код строки не считается коллизией.
func (s *LinkService) Update(ctx context.Context, ownerID string, id int64, req *model.UpdateLinkRequest) (*model.Link, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	destinationURL := utils.SanitizeInput(req.URL)
	shortCode := utils.SanitizeInput(req.ShortCode)

	if ve := utils.ValidateLinkInput(destinationURL, shortCode, true); ve != nil {
		return nil, ve
	}

	taken, err := s.repo.ExistsByShortCode(ctx, shortCode, id)
	if err != nil {
		return nil, s.persistenceFailure("update", err)
	}
	if taken {
		return nil, apperrors.ErrShortCodeTaken
	}

	link, err := s.repo.UpdateByIDAndOwner(ctx, id, ownerID, destinationURL, shortCode)
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrShortCodeTaken) {
		return nil, err
	}
	if err != nil {
		return nil, s.persistenceFailure("update", err)
	}

	s.invalidateListing(ctx, ownerID)

	return link, nil
}

// Delete навсегда удаляет ссылку владельца.
func (s *LinkService) Delete(ctx context.Context, ownerID string, id int64) (*model.Link, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	link, err := s.repo.DeleteByIDAndOwner(ctx, id, ownerID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, s.persistenceFailure("delete", err)
	}

	s.invalidateListing(ctx, ownerID)

	return link, nil
}

// List возвращает ссылки владельца, новые первыми. Ответ кэшируется на владельца
// и сбрасывается при любой его мутации.
func (s *LinkService) List(ctx context.Context, ownerID string) ([]model.Link, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	cacheKey := cache.CacheKeys.Listing(ownerID)
	var cached []model.Link
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warnw("listing cache read failed", "owner_id", ownerID, "error", err)
	}

	links, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, s.persistenceFailure("list", err)
	}

	if err := s.cache.Set(ctx, cacheKey, links); err != nil {
		s.log.Warnw("listing cache write failed", "owner_id", ownerID, "error", err)
	}

	return links, nil
}

// Resolve ищет адрес назначения по коду. Авторизация не нужна: пространство
// кодов глобальное.
func (s *LinkService) Resolve(ctx context.Context, shortCode string) (string, error) {
	link, err := s.repo.FindByShortCode(ctx, shortCode)
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", err
	}
	if err != nil {
		return "", s.persistenceFailure("resolve", err)
	}

	return link.URL, nil
}

// allocateShortCode выводит базовый кандидат из адреса и подбирает свободный
// код, наращивая числовой суффикс: base, base1, base2, ...
func (s *LinkService) allocateShortCode(ctx context.Context, destinationURL string) (string, error) {
	base := utils.DeriveBase(destinationURL)

	for attempt := 0; attempt < s.maxAllocAttempts; attempt++ {
		candidate := base
		if attempt > 0 {
			candidate = base + strconv.Itoa(attempt)
		}

		taken, err := s.repo.ExistsByShortCode(ctx, candidate, 0)
		if err != nil {
			return "", s.persistenceFailure("allocate", err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", apperrors.ErrAllocationExhausted
}

func (s *LinkService) invalidateListing(ctx context.Context, ownerID string) {
	if err := s.cache.Delete(ctx, cache.CacheKeys.Listing(ownerID)); err != nil {
		// Сбой кэша не должен ронять уже завершенную мутацию
		s.log.Warnw("listing cache invalidation failed", "owner_id", ownerID, "error", err)
	}
}

func (s *LinkService) persistenceFailure(op string, err error) error {
	s.log.Errorw("storage failure", "op", op, "error", err)
	return apperrors.NewPersistenceError(op, err)
}
