package ledger

import (
	"context"

	"bluecarbon-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegisterProject creates a project owned by the caller. Project ids are
// unique for the life of the ledger: rows are never deleted, so an id can
// never be reused, even after deactivation.
func (l *Ledger) RegisterProject(ctx context.Context, caller uuid.UUID, id, location string, area int64) (*domain.Project, error) {
	var project *domain.Project
	err := l.run(ctx, func(tx *gorm.DB, rec *recorder) error {
		if err := requireNotPaused(tx); err != nil {
			return err
		}
		if id == "" {
			return validationf("project id is required")
		}
		if location == "" {
			return validationf("project location is required")
		}
		if area <= 0 {
			return validationf("project area must be positive")
		}
		var count int64
		if err := tx.Model(&domain.Project{}).Where("project_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return conflictf("project id %q already exists", id)
		}
		project = &domain.Project{
			ProjectID: id,
			Location:  location,
			Area:      area,
			OwnerID:   caller,
			IsActive:  true,
		}
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		return rec.appendAudit(tx, "register_project", caller, "project", id, map[string]interface{}{
			"location":  location,
			"area":      area,
			"owner_id":  caller.String(),
			"is_active": true,
		})
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// VerifyProject sets the project's verified flag. Owner or verifier. The
// flag is repeatable in both directions.
func (l *Ledger) VerifyProject(ctx context.Context, caller uuid.UUID, id string, verified bool) error {
	return l.run(ctx, func(tx *gorm.DB, rec *recorder) error {
		if err := requireNotPaused(tx); err != nil {
			return err
		}
		if err := l.requireVerifier(tx, caller); err != nil {
			return err
		}
		project, err := findProject(tx, id)
		if err != nil {
			return err
		}
		project.IsVerified = verified
		if err := tx.Save(project).Error; err != nil {
			return err
		}
		return rec.appendAudit(tx, "verify_project", caller, "project", id, map[string]interface{}{
			"is_verified": verified,
		})
	})
}

// DeactivateProject clears the project's active flag. Project owner or
// ledger owner. Deactivation is terminal: there is no reactivation path.
func (l *Ledger) DeactivateProject(ctx context.Context, caller uuid.UUID, id string) error {
	return l.run(ctx, func(tx *gorm.DB, rec *recorder) error {
		if err := requireNotPaused(tx); err != nil {
			return err
		}
		project, err := findProject(tx, id)
		if err != nil {
			return err
		}
		if project.OwnerID != caller {
			isOwner, err := l.policy.IsOwner(tx, caller)
			if err != nil {
				return err
			}
			if !isOwner {
				return authorizationf("caller is neither the project owner nor the ledger owner")
			}
		}
		if !project.IsActive {
			return conflictf("project %q is already deactivated", id)
		}
		project.IsActive = false
		if err := tx.Save(project).Error; err != nil {
			return err
		}
		return rec.appendAudit(tx, "deactivate_project", caller, "project", id, map[string]interface{}{
			"is_active": false,
		})
	})
}

// GetProject fetches a project by id.
func (l *Ledger) GetProject(id string) (*domain.Project, error) {
	return findProject(l.db, id)
}

// ListAccountProjects returns the ids of projects owned by account.
func (l *Ledger) ListAccountProjects(account uuid.UUID) ([]string, error) {
	var ids []string
	err := l.db.Model(&domain.Project{}).
		Where("owner_id = ?", account).
		Order(`"createdAt" ASC`).
		Pluck("project_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func findProject(tx *gorm.DB, id string) (*domain.Project, error) {
	if id == "" {
		return nil, validationf("project id is required")
	}
	var project domain.Project
	if err := tx.Where("project_id = ?", id).First(&project).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, conflictf("project %q does not exist", id)
		}
		return nil, err
	}
	return &project, nil
}
