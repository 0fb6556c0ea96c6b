package ledger

import (
	"context"
	"math"
	"strconv"
	"time"

	"bluecarbon-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeasurementInput is the submission payload for AddMeasurement. Method
// and EvidenceCID are optional metadata (e.g. "drone_analysis" plus the
// content id of an uploaded evidence file).
type MeasurementInput struct {
	ProjectID   string
	Amount      int64
	MeasuredAt  time.Time
	Method      string
	EvidenceCID string
}

// AddMeasurement records an MRV observation for a project. Caller must be
// the project owner or a registered reporter. The reported amount is added
// to the project's cumulative total at submission time, before this record
// is verified — minting is bounded by that cumulative figure, so
// unverified amounts count toward mintable supply.
func (l *Ledger) AddMeasurement(ctx context.Context, caller uuid.UUID, in MeasurementInput) (*domain.MeasurementRecord, error) {
	var record *domain.MeasurementRecord
	err := l.run(ctx, func(tx *gorm.DB, rec *recorder) error {
		if err := requireNotPaused(tx); err != nil {
			return err
		}
		project, err := findProject(tx, in.ProjectID)
		if err != nil {
			return err
		}
		if !project.IsActive {
			return conflictf("project %q is deactivated", in.ProjectID)
		}
		if in.Amount <= 0 {
			return validationf("measurement amount must be positive")
		}
		if in.MeasuredAt.IsZero() {
			return validationf("measurement timestamp is required")
		}
		if in.MeasuredAt.After(l.now()) {
			return validationf("measurement timestamp is in the future")
		}
		if project.OwnerID != caller {
			isReporter, err := l.policy.IsReporter(tx, caller)
			if err != nil {
				return err
			}
			if !isReporter {
				return authorizationf("caller is neither the project owner nor a registered reporter")
			}
		}
		if in.Amount > math.MaxInt64-project.TotalReportedSequestration {
			return invariantf("reported amount overflows the project's cumulative total")
		}

		record = &domain.MeasurementRecord{
			ProjectID:   in.ProjectID,
			Amount:      in.Amount,
			MeasuredAt:  in.MeasuredAt,
			ReporterID:  caller,
			Method:      in.Method,
			EvidenceCID: in.EvidenceCID,
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		project.TotalReportedSequestration += in.Amount
		if err := tx.Save(project).Error; err != nil {
			return err
		}
		return rec.appendAudit(tx, "add_measurement", caller, "measurement", strconv.FormatUint(record.RecordID, 10), map[string]interface{}{
			"project_id":                   in.ProjectID,
			"amount":                       in.Amount,
			"measured_at":                  in.MeasuredAt,
			"method":                       in.Method,
			"evidence_cid":                 in.EvidenceCID,
			"total_reported_sequestration": project.TotalReportedSequestration,
		})
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// VerifyMeasurement overwrites a record's verified flag and notes. Owner
// or verifier. Repeatable: a later call may flip a verified record back.
func (l *Ledger) VerifyMeasurement(ctx context.Context, caller uuid.UUID, recordID uint64, verified bool, notes string) error {
	return l.run(ctx, func(tx *gorm.DB, rec *recorder) error {
		if err := requireNotPaused(tx); err != nil {
			return err
		}
		if err := l.requireVerifier(tx, caller); err != nil {
			return err
		}
		record, err := findMeasurement(tx, recordID)
		if err != nil {
			return err
		}
		record.IsVerified = verified
		record.VerificationNotes = notes
		if err := tx.Save(record).Error; err != nil {
			return err
		}
		return rec.appendAudit(tx, "verify_measurement", caller, "measurement", strconv.FormatUint(recordID, 10), map[string]interface{}{
			"is_verified":        verified,
			"verification_notes": notes,
		})
	})
}

// GetMeasurement fetches a record by id.
func (l *Ledger) GetMeasurement(recordID uint64) (*domain.MeasurementRecord, error) {
	return findMeasurement(l.db, recordID)
}

// ListProjectMeasurements returns the record ids for a project, in
// submission order.
func (l *Ledger) ListProjectMeasurements(projectID string) ([]uint64, error) {
	var ids []uint64
	err := l.db.Model(&domain.MeasurementRecord{}).
		Where("project_id = ?", projectID).
		Order("record_id ASC").
		Pluck("record_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func findMeasurement(tx *gorm.DB, recordID uint64) (*domain.MeasurementRecord, error) {
	var record domain.MeasurementRecord
	if err := tx.Where("record_id = ?", recordID).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, conflictf("measurement record %d does not exist", recordID)
		}
		return nil, err
	}
	return &record, nil
}
