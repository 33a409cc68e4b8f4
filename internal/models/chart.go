package models

import "time"

// ToothStatus is the clinical state recorded for one tooth.
type ToothStatus string

const (
	ToothNormal     ToothStatus = "normal"
	ToothDecay      ToothStatus = "carie"
	ToothFilling    ToothStatus = "plombage"
	ToothCrown      ToothStatus = "couronne"
	ToothExtraction ToothStatus = "extraction"
	ToothImplant    ToothStatus = "implant"
	ToothBridge     ToothStatus = "bridge"
)

// Valid reports whether s is a known tooth status.
func (s ToothStatus) Valid() bool {
	switch s {
	case ToothNormal, ToothDecay, ToothFilling, ToothCrown, ToothExtraction, ToothImplant, ToothBridge:
		return true
	}
	return false
}

// ValidToothNumber reports whether n is a permanent tooth in FDI notation
// (quadrant 1-4, position 1-8).
func ValidToothNumber(n int) bool {
	q, p := n/10, n%10
	return q >= 1 && q <= 4 && p >= 1 && p <= 8
}

// ToothNumbers returns the 32 FDI numbers in chart order.
func ToothNumbers() []int {
	out := make([]int, 0, 32)
	for q := 1; q <= 4; q++ {
		for p := 1; p <= 8; p++ {
			out = append(out, q*10+p)
		}
	}
	return out
}

// ToothRecord is one observation of a tooth. Rows are appended; the most
// recently created row per (patient, tooth) is the current state.
type ToothRecord struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time   `gorm:"index:idx_tooth_current,priority:3" json:"created_at"`
	PatientID   uint        `gorm:"not null;index:idx_tooth_current,priority:1" json:"patient_id"`
	ToothNumber int         `gorm:"not null;index:idx_tooth_current,priority:2" json:"tooth_number"`
	Status      ToothStatus `gorm:"size:20;not null" json:"status"`
	Notes       string      `gorm:"type:text" json:"notes,omitempty"`
	ExamDate    string      `gorm:"size:10;not null" json:"exam_date"`
}

// ExamHistoryEntry is an append-only clinical note.
type ExamHistoryEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	PatientID   uint      `gorm:"index;not null" json:"patient_id"`
	ExamDate    string    `gorm:"size:10;not null" json:"exam_date"`
	ExamType    string    `gorm:"size:50;not null" json:"exam_type"`
	Tooth       string    `gorm:"size:50" json:"tooth,omitempty"`
	Description string    `gorm:"type:text;not null" json:"description"`
}

// TableName keeps the historical table name.
func (ExamHistoryEntry) TableName() string { return "exam_history" }
