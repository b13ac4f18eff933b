package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/model"
	"github.com/and161185/studysync/internal/repository"
)

// Host stores file content at the hosting service.
type Host interface {
	Upload(ctx context.Context, up model.Upload) (model.Hosted, error)
}

// ResourceService manages uploaded files and their activity log.
type ResourceService interface {
	Upload(ctx context.Context, owner uuid.UUID, up model.Upload) (model.Resource, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
	List(ctx context.Context, owner uuid.UUID) ([]model.Resource, error)
	RecentActivity(ctx context.Context, owner uuid.UUID) ([]model.Activity, error)
}

// ResourceServiceImpl implements ResourceService.
type ResourceServiceImpl struct {
	host      Host
	resources repository.ResourceRepository
	activity  repository.ActivityRepository
	log       *zap.Logger
	now       Clock
}

// NewResourceService constructs ResourceService.
func NewResourceService(host Host, resources repository.ResourceRepository, activity repository.ActivityRepository, log *zap.Logger) *ResourceServiceImpl {
	return &ResourceServiceImpl{
		host:      host,
		resources: resources,
		activity:  activity,
		log:       log.With(zap.String("component", "resources")),
		now:       time.Now,
	}
}

// Upload hosts the file, records its metadata and logs an upload entry.
// Nothing is sent to the host without a file and an owner.
func (s *ResourceServiceImpl) Upload(ctx context.Context, owner uuid.UUID, up model.Upload) (model.Resource, error) {
	if strings.TrimSpace(up.Name) == "" || len(up.Data) == 0 {
		return model.Resource{}, errs.Validation("please select a file")
	}
	if owner == uuid.Nil {
		return model.Resource{}, errs.ErrNotAuthenticated
	}

	hosted, err := s.host.Upload(ctx, up)
	if err != nil {
		return model.Resource{}, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return model.Resource{}, err
	}
	size := hosted.Bytes
	if size == 0 {
		size = int64(len(up.Data))
	}
	r := model.Resource{
		ID:        id,
		UserID:    owner,
		Name:      up.Name,
		URL:       hosted.URL,
		PublicID:  hosted.PublicID,
		MimeType:  up.MimeType,
		Size:      size,
		CreatedAt: s.now(),
	}
	if err := s.resources.Create(ctx, &r); err != nil {
		return model.Resource{}, fmt.Errorf("store resource: %w", err)
	}

	s.record(ctx, owner, model.ActivityUpload, r.Name)
	return r, nil
}

// Delete removes the metadata row. A missing row is not an error and logs nothing.
func (s *ResourceServiceImpl) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if owner == uuid.Nil {
		return errs.ErrNotAuthenticated
	}
	name, deleted, err := s.resources.Delete(ctx, owner, id)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if deleted {
		s.record(ctx, owner, model.ActivityDelete, name)
	}
	return nil
}

// List returns the owner's resources newest first.
func (s *ResourceServiceImpl) List(ctx context.Context, owner uuid.UUID) ([]model.Resource, error) {
	if owner == uuid.Nil {
		return nil, errs.ErrNotAuthenticated
	}
	rs, err := s.resources.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return rs, nil
}

// RecentActivity returns the latest activity entries.
func (s *ResourceServiceImpl) RecentActivity(ctx context.Context, owner uuid.UUID) ([]model.Activity, error) {
	if owner == uuid.Nil {
		return nil, errs.ErrNotAuthenticated
	}
	a, err := s.activity.Recent(ctx, owner, model.RecentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	return a, nil
}

func (s *ResourceServiceImpl) record(ctx context.Context, owner uuid.UUID, kind model.ActivityKind, name string) {
	followUp(ctx, s.log, "activity "+string(kind), func(ctx context.Context) error {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		return s.activity.Append(ctx, &model.Activity{
			ID:           id,
			UserID:       owner,
			Kind:         kind,
			ResourceName: name,
			CreatedAt:    s.now(),
		})
	})
}
