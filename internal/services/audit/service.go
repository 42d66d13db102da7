// Package audit writes the audit trail. Entries are recorded after the
// governing state change has committed; a failed write is logged and
// swallowed so the committed change stands.
package audit

import (
	"context"

	"celora/internal/logger"
	"celora/internal/models"
	"celora/internal/repositories"
)

type Service struct {
	repo repositories.AuditRepository
	log  *logger.Logger
}

func NewService(repo repositories.AuditRepository, log *logger.Logger) *Service {
	if repo == nil {
		panic("audit repository is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{repo: repo, log: log}
}

// Record appends one audit row.
func (s *Service) Record(_ context.Context, actorID uint, entityType, entityID, action string, before, after, metadata map[string]interface{}) {
	entry := &models.AuditLog{
		ActorID:    actorID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Before:     models.NewJSON(before),
		After:      models.NewJSON(after),
		Metadata:   models.NewJSON(metadata),
	}
	if err := s.repo.Create(entry); err != nil {
		s.log.Errorw("audit write failed",
			"entity_type", entityType,
			"entity_id", entityID,
			"action", action,
			"error", err,
		)
	}
}
