package tag

import (
	"context"

	"github.com/google/uuid"

	"foodgram/domain"
	"foodgram/entities"
)

type (
	TagService interface {
		GetTags(ctx context.Context) ([]domain.Tag, error)
		GetTag(ctx context.Context, tagID string) (domain.Tag, error)
	}

	tagService struct {
		tagRepository TagRepository
	}
)

func NewTagService(tagRepository TagRepository) TagService {
	return &tagService{tagRepository: tagRepository}
}

func (s *tagService) GetTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tagRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, toTag(t))
	}
	return out, nil
}

func (s *tagService) GetTag(ctx context.Context, tagID string) (domain.Tag, error) {
	id, err := uuid.Parse(tagID)
	if err != nil {
		return domain.Tag{}, domain.ErrTagNotFound
	}
	t, err := s.tagRepository.GetTagByID(ctx, id)
	if err != nil {
		return domain.Tag{}, err
	}
	return toTag(t), nil
}

func toTag(t *entities.Tag) domain.Tag {
	return domain.Tag{
		ID:    t.ID.String(),
		Name:  t.Name,
		Color: t.Color,
		Slug:  t.Slug,
	}
}
