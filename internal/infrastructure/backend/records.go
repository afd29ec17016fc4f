package backend

import (
	"context"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
)

// Records scopes an EventRepository to a single user.
type Records struct {
	repo   ports.EventRepository
	userID string
}

// NewRecords returns userID's view of repo.
func NewRecords(repo ports.EventRepository, userID string) *Records {
	return &Records{repo: repo, userID: userID}
}

// UserID returns the owner of this view.
func (r *Records) UserID() string {
	return r.userID
}

func (r *Records) List(ctx context.Context) ([]entities.LifeEvent, error) {
	return r.repo.ListEvents(ctx, r.userID)
}

func (r *Records) Create(ctx context.Context, event *entities.LifeEvent) (string, error) {
	return r.repo.CreateEvent(ctx, r.userID, event)
}

func (r *Records) Update(ctx context.Context, id string, event *entities.LifeEvent) error {
	return r.repo.UpdateEvent(ctx, r.userID, id, event)
}

func (r *Records) Delete(ctx context.Context, id string) error {
	return r.repo.DeleteEvent(ctx, r.userID, id)
}
