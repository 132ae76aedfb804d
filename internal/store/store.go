package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a patient or case row does not exist, or
// when a case does not belong to the given patient.
var ErrNotFound = errors.New("record not found")

// CaseStore provides read-only access to the clinic database for one export.
type CaseStore struct {
	*gorm.DB
}

// Open opens the clinic SQLite database at path and returns a store over it.
func Open(path string) (*CaseStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	return &CaseStore{DB: db}, nil
}

// NewCaseStore wraps an existing gorm connection.
func NewCaseStore(db *gorm.DB) *CaseStore {
	return &CaseStore{DB: db}
}

// Migrate creates the clinic tables if they do not exist. The interactive
// application owns the schema; this exists for seeding test databases.
func (s *CaseStore) Migrate() error {
	if err := s.AutoMigrate(&Patient{}, &Case{}, &TreatmentPlanItem{}, &ScanImage{}); err != nil {
		return fmt.Errorf("migrate clinic schema: %w", err)
	}
	return nil
}

// FetchPatient returns the patient row for patientID.
func (s *CaseStore) FetchPatient(ctx context.Context, patientID uint) (*Patient, error) {
	var p Patient
	err := s.WithContext(ctx).First(&p, patientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("patient %d: %w", patientID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch patient %d: %w", patientID, err)
	}
	return &p, nil
}

// FetchCase returns the case row for caseID. The case must belong to
// patientID; a mismatch is reported as ErrNotFound, the same as an absent
// row, so a wrong pairing can never leak another patient's case.
func (s *CaseStore) FetchCase(ctx context.Context, caseID, patientID uint) (*Case, error) {
	var c Case
	err := s.WithContext(ctx).First(&c, caseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("case %d: %w", caseID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch case %d: %w", caseID, err)
	}
	if c.PatientID != patientID {
		return nil, fmt.Errorf("case %d does not belong to patient %d: %w", caseID, patientID, ErrNotFound)
	}
	return &c, nil
}

// FetchTreatmentPlan returns the case's treatment plan items in insertion
// order.
func (s *CaseStore) FetchTreatmentPlan(ctx context.Context, caseID uint) ([]TreatmentPlanItem, error) {
	var items []TreatmentPlanItem
	err := s.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("fetch treatment plan for case %d: %w", caseID, err)
	}
	return items, nil
}

// FetchScanImages returns the case's scan image records, newest upload
// first. The stored file paths are not checked here; a dead path is a
// render-time condition.
func (s *CaseStore) FetchScanImages(ctx context.Context, caseID uint) ([]ScanImage, error) {
	var scans []ScanImage
	err := s.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("uploaded_at DESC").
		Find(&scans).Error
	if err != nil {
		return nil, fmt.Errorf("fetch scan images for case %d: %w", caseID, err)
	}
	return scans, nil
}

// ListPatients returns all patients ordered by last then first name.
// Used by the interactive wizard, not by the export path.
func (s *CaseStore) ListPatients(ctx context.Context) ([]Patient, error) {
	var patients []Patient
	err := s.WithContext(ctx).
		Order("last_name ASC, first_name ASC").
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

// ListCases returns a patient's cases, most recent case date first.
// Used by the interactive wizard, not by the export path.
func (s *CaseStore) ListCases(ctx context.Context, patientID uint) ([]Case, error) {
	var cases []Case
	err := s.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("case_date DESC, id DESC").
		Find(&cases).Error
	if err != nil {
		return nil, fmt.Errorf("list cases for patient %d: %w", patientID, err)
	}
	return cases, nil
}
