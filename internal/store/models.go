package store

import "time"

// Patient mirrors the clinic's patients table. Every field except ID is
// optional; display fallbacks are applied at render time, not here.
type Patient struct {
	ID        uint   `gorm:"primaryKey"`
	FirstName string `gorm:"not null"`
	LastName  string `gorm:"not null"`
	Gender    string
	DOB       string `gorm:"column:dob"` // YYYY-MM-DD
	Phone     string `gorm:"uniqueIndex:idx_patients_phone"`
	Email     string
	Address   string
}

// Case mirrors the cases table. One case belongs to exactly one patient
// and is identified to clinicians by its outpatient (OP) number.
type Case struct {
	ID             uint `gorm:"primaryKey"`
	PatientID      uint `gorm:"not null;index:idx_cases_patient_date,priority:1"`
	OpNumber       int  `gorm:"uniqueIndex:idx_cases_op_number"`
	CaseDate       string `gorm:"not null;index:idx_cases_patient_date,priority:2"` // YYYY-MM-DD
	FollowUpDate   string `gorm:"index:idx_cases_followup"`                         // YYYY-MM-DD
	CaseStatus     string `gorm:"default:'Open';index:idx_cases_status"`            // Open / In Progress / Closed / Cancelled
	ChiefComplaint string `gorm:"not null"`
	MedicalHistory string
	DentalHistory  string
	Examination    string
	Diagnosis      string

	ConsentObtained bool
	ConsentDate     string // YYYY-MM-DD
	ConsentFilePath string

	VitalsBP     string `gorm:"column:vitals_bp"`     // e.g. 120/80
	VitalsHR     string `gorm:"column:vitals_hr"`     // bpm
	VitalsTemp   string `gorm:"column:vitals_temp"`   // °C
	VitalsWeight string `gorm:"column:vitals_weight"` // kg

	ClosedDate string // YYYY-MM-DD
	CreatedAt  time.Time
}

// TreatmentPlanItem mirrors the treatment_plans table. Items belong to one
// case and keep their insertion order (primary key order).
type TreatmentPlanItem struct {
	ID           uint   `gorm:"primaryKey"`
	CaseID       uint   `gorm:"not null;index"`
	ItemType     string `gorm:"not null"` // Medication / Procedure / Test / Advice
	Name         string `gorm:"not null"`
	Dosage       string
	Frequency    string
	DurationDays int
	StartDate    string // YYYY-MM-DD
	EndDate      string // YYYY-MM-DD
	Status       string // Planned / Ongoing / Completed
	Notes        string
	CreatedAt    time.Time
}

// ScanImage mirrors the scan_images table. Only the path is stored; the
// file itself lives outside the database and may be gone by export time.
type ScanImage struct {
	ID         uint   `gorm:"primaryKey"`
	CaseID     uint   `gorm:"not null;index"`
	FilePath   string `gorm:"not null"`
	ScanType   string // e.g. Periapical X-Ray, OPG, CBCT
	UploadedAt time.Time
	Notes      string
}

// TableName maps items to the clinic's treatment_plans table.
func (TreatmentPlanItem) TableName() string { return "treatment_plans" }
