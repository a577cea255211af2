package types

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApprovalStatus is the canonical tri-state review status of a case.
// Stored documents may carry legacy encodings (mixed-case strings or
// booleans); NormalizeApprovalStatus maps every encoding to one of the
// three canonical values and must be applied after every read.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "Pending"
	StatusApproved ApprovalStatus = "Approved"
	StatusRejected ApprovalStatus = "Rejected"
)

// Valid reports whether s is one of the three canonical statuses
func (s ApprovalStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// NormalizeApprovalStatus maps a raw stored status value to the canonical
// tri-state. Legacy booleans normalize as true -> Approved and
// false -> Pending (an unreviewed case, matching the dashboard's historic
// treatment of boolean statuses). Unknown or missing values normalize to
// Pending.
func NormalizeApprovalStatus(raw interface{}) ApprovalStatus {
	switch v := raw.(type) {
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "approved":
			return StatusApproved
		case "rejected":
			return StatusRejected
		case "pending":
			return StatusPending
		}
	case bool:
		if v {
			return StatusApproved
		}
		return StatusPending
	case ApprovalStatus:
		if v.Valid() {
			return v
		}
	}
	return StatusPending
}

// Case note entry types for the append-only audit list
const (
	NoteTypeDoctorNotes   = "doctor_notes"
	NoteTypeApproval      = "approval"
	NoteTypeApprovalNotes = "approval_notes"
)

// CaseNote is a single timestamped entry in a case's append-only
// audit/notes list. Entries are never mutated or reordered once written.
type CaseNote struct {
	Timestamp string `bson:"timestamp" json:"timestamp"`
	Type      string `bson:"type" json:"type"`
	Content   string `bson:"content" json:"content"`
	AddedBy   string `bson:"addedBy" json:"addedBy"`
}

// RADS is the diagnosis/analysis/research sub-structure attached to a
// case by the upstream AI intake pipeline.
type RADS struct {
	Diagnosis  string `bson:"Diagnosis" json:"diagnosis"`
	Speciality string `bson:"Speciality" json:"speciality"`
	Research   string `bson:"Research" json:"research"`
	Analysis   string `bson:"Analysis" json:"analysis"`
}

// Case is a stored case document. ApprovalStatus is left untyped because
// legacy documents persist it as a string in arbitrary casing or as a
// boolean; use Status() for the canonical value.
type Case struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	CaseID            string             `bson:"CaseID" json:"caseId"`
	PatientID         string             `bson:"PatientID" json:"patientId"`
	PrescriptionID    string             `bson:"PrescriptionID" json:"prescriptionId"`
	ApprovalStatus    interface{}        `bson:"ApprovalStatus" json:"-"`
	ApprovalTimestamp string             `bson:"ApprovalTimestamp,omitempty" json:"approvalTimestamp,omitempty"`
	RADS              RADS               `bson:"RADS" json:"rads"`
	Summary           string             `bson:"Summary" json:"summary"`
	CriticalityNumber float64            `bson:"CriticalityNumber" json:"criticalityNumber"`
	Transcripts       []string           `bson:"Transcripts" json:"transcripts"`
	Notes             []CaseNote         `bson:"Prescriptions" json:"notes"`
	Timestamp         string             `bson:"Timestamp" json:"timestamp"`
	Version           int64              `bson:"Version" json:"version"`
}

// Status returns the canonical approval status of the case
func (c *Case) Status() ApprovalStatus {
	return NormalizeApprovalStatus(c.ApprovalStatus)
}

// CaseEdits carries the optional doctor-editable fields of a case.
// Empty fields are left untouched by update operations.
type CaseEdits struct {
	Diagnosis       string `json:"diagnosis"`
	Research        string `json:"research"`
	Analysis        string `json:"analysis"`
	Summary         string `json:"summary"`
	AdditionalNotes string `json:"additionalNotes"`
}

// Empty reports whether no edit field is set
func (e *CaseEdits) Empty() bool {
	return e.Diagnosis == "" && e.Research == "" && e.Analysis == "" &&
		e.Summary == "" && e.AdditionalNotes == ""
}

// ApprovalRequest is the input of the case approval workflow
type ApprovalRequest struct {
	CaseID  string         `json:"caseId"`
	Status  ApprovalStatus `json:"status"`
	Edits   CaseEdits      `json:"updates"`
	Version int64          `json:"version"`
}

// CaseUpdateRequest is the input of the case update workflow (no status
// change)
type CaseUpdateRequest struct {
	CaseID  string    `json:"caseId"`
	Edits   CaseEdits `json:"updates"`
	Version int64     `json:"version"`
}

// CaseMutation is the repository-level description of a single atomic
// case mutation: status transition (optional), field edits, and audit
// notes to append in order. Version > 0 requests an optimistic
// concurrency check against the stored document version.
type CaseMutation struct {
	Status        ApprovalStatus
	StatusChanged bool
	Edits         CaseEdits
	Notes         []CaseNote
	Version       int64
}

// CaseView is the flat denormalized projection of a case joined with its
// patient record, as rendered by the dashboard pages. A case without a
// matching patient still produces a view with empty patient fields.
type CaseView struct {
	CaseID            string         `bson:"CaseID" json:"caseId"`
	PatientID         string         `bson:"PatientID" json:"patientId"`
	PrescriptionID    string         `bson:"PrescriptionID" json:"prescriptionId"`
	RawStatus         interface{}    `bson:"ApprovalStatus" json:"-"`
	ApprovalStatus    ApprovalStatus `bson:"-" json:"approvalStatus"`
	CriticalityNumber float64        `bson:"CriticalityNumber" json:"criticalityNumber"`
	Summary           string         `bson:"Summary" json:"summary"`
	Transcripts       []string       `bson:"Transcripts" json:"transcripts"`
	Timestamp         string         `bson:"Timestamp" json:"timestamp"`
	Diagnosis         string         `bson:"diagnosis" json:"diagnosis"`
	Speciality        string         `bson:"speciality" json:"speciality"`
	Research          string         `bson:"research" json:"research"`
	Analysis          string         `bson:"analysis" json:"analysis"`
	Notes             []CaseNote     `bson:"notes" json:"notes"`
	PatientName       string         `bson:"name" json:"name"`
	PatientAge        int            `bson:"age" json:"age"`
	Gender            string         `bson:"gender" json:"gender"`
	ContactNo         string         `bson:"contactNo" json:"contactNo"`
	Email             string         `bson:"email" json:"email"`
	Height            string         `bson:"height" json:"height"`
	Weight            string         `bson:"weight" json:"weight"`
	MedicalHistory    string         `bson:"medicalHistory" json:"medicalHistory"`
	Allergies         []string       `bson:"allergies" json:"allergies"`
	Version           int64          `bson:"Version" json:"version"`
}
