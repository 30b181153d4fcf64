package contract

import (
	"context"

	"github.com/google/uuid"

	"nutri-coach-be/internal/entity"
	"nutri-coach-be/internal/repository/specification"
)

type MailRepository interface {
	Create(ctx context.Context, entry *entity.MailEntry) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MailEntry, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MailEntry, error)

	// Claim atomically takes a pending entry out of the queue. It returns
	// false when the entry was already claimed, which is how a duplicated
	// trigger is suppressed.
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error

	// Template registry
	FindTemplateByCode(ctx context.Context, code string) (*entity.MailTemplate, error)
	UpsertTemplate(ctx context.Context, template *entity.MailTemplate) error
}
