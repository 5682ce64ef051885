package directory

import (
	"context"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
	"github.com/Domenick1991/travelbackoffice/internal/repository"
	"github.com/rs/zerolog"
)

const (
	KindAgencies = "agencies"
	KindUsers    = "users"
)

type DirectoryUseCase interface {
	Agencies(ctx context.Context) ([]domain.DirectoryOption, error)
	Users(ctx context.Context) ([]domain.DirectoryOption, error)
}

type OptionsCache interface {
	GetOptions(ctx context.Context, kind string) ([]domain.DirectoryOption, error)
	SetOptions(ctx context.Context, kind string, options []domain.DirectoryOption) error
}

type DirectoryService struct {
	repo   repository.DirectoryRepository
	cache  OptionsCache
	logger zerolog.Logger
}

func NewDirectoryService(repo repository.DirectoryRepository, cache OptionsCache, logger zerolog.Logger) *DirectoryService {
	return &DirectoryService{repo: repo, cache: cache, logger: logger}
}

func (s *DirectoryService) Agencies(ctx context.Context) ([]domain.DirectoryOption, error) {
	return s.options(ctx, KindAgencies, s.repo.Agencies)
}

func (s *DirectoryService) Users(ctx context.Context) ([]domain.DirectoryOption, error) {
	return s.options(ctx, KindUsers, s.repo.Users)
}

// options reads through the cache. A broken cache only costs a database hit.
func (s *DirectoryService) options(ctx context.Context, kind string, load func(context.Context) ([]domain.DirectoryOption, error)) ([]domain.DirectoryOption, error) {
	if s.cache != nil {
		cached, err := s.cache.GetOptions(ctx, kind)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("kind", kind).Msg("directory cache read failed")
		}
	}

	options, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetOptions(ctx, kind, options); err != nil {
			s.logger.Warn().Err(err).Str("kind", kind).Msg("directory cache write failed")
		}
	}
	return options, nil
}

var _ DirectoryUseCase = (*DirectoryService)(nil)
