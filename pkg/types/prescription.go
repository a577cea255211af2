package types

import "go.mongodb.org/mongo-driver/bson/primitive"

// UnknownMedicationName is rendered for a medication item whose catalog
// reference no longer resolves. The item itself is never dropped.
const UnknownMedicationName = "Unknown Medication"

// Dosage records which of the four daily slots a medication is taken in
type Dosage struct {
	M bool `bson:"M" json:"m"`
	A bool `bson:"A" json:"a"`
	E bool `bson:"E" json:"e"`
	N bool `bson:"N" json:"n"`
}

// Timing carries schedule and food-relation instructions for one item
type Timing struct {
	DailyTimes   string `bson:"DailyTimes" json:"dailyTimes"`
	Duration     string `bson:"Duration" json:"duration"`
	FoodRelation string `bson:"FoodRelation" json:"foodRelation"`
}

// MedicationPlan references the catalog medication an item prescribes
type MedicationPlan struct {
	Main string `bson:"Main" json:"main"`
}

// MedicationItem is one prescribed medication line on a prescription.
// Items are appended atomically and never updated or removed.
type MedicationItem struct {
	MedicationPlan  MedicationPlan `bson:"MedicationPlan" json:"medicationPlan"`
	Dosage          Dosage         `bson:"Dosage" json:"dosage"`
	Timing          Timing         `bson:"Timing" json:"timing"`
	AdditionalNotes string         `bson:"AdditionalNotes" json:"additionalNotes"`
}

// Prescription is a stored prescription document, one per case
type Prescription struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	PrescriptionID  string             `bson:"PrescriptionID" json:"prescriptionId"`
	CaseID          string             `bson:"CaseID" json:"caseId"`
	PatientID       string             `bson:"PatientID" json:"patientId"`
	MajorNotes      string             `bson:"MajorNotes" json:"majorNotes"`
	MedicationItems []MedicationItem   `bson:"MedicationItems" json:"medicationItems"`
}

// Medication is a read-only catalog entry
type Medication struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	MedicationID   string             `bson:"MedicationID" json:"medicationId"`
	MedicationName string             `bson:"MedicationName" json:"medicationName"`
}

// MedicationOption is the catalog entry shape served to pickers
type MedicationOption struct {
	ID   string `bson:"MedicationID" json:"id"`
	Name string `bson:"MedicationName" json:"name"`
}

// PrescribedMedication is one medication item joined with its resolved
// catalog name for display
type PrescribedMedication struct {
	MedicationID    string `bson:"medicationId" json:"medicationId"`
	MedicationName  string `bson:"medicationName" json:"medicationName"`
	Dosage          Dosage `bson:"dosage" json:"dosage"`
	Timing          Timing `bson:"timing" json:"timing"`
	AdditionalNotes string `bson:"additionalNotes" json:"additionalNotes"`
}

// PrescriptionView is the flat prescription+case+patient projection
// rendered by the prescription page
type PrescriptionView struct {
	PrescriptionID string                 `bson:"PrescriptionID" json:"prescriptionId"`
	CaseID         string                 `bson:"CaseID" json:"caseId"`
	PatientID      string                 `bson:"PatientID" json:"patientId"`
	MajorNotes     string                 `bson:"MajorNotes" json:"majorNotes"`
	Medications    []PrescribedMedication `bson:"medications" json:"medications"`
	Diagnosis      string                 `bson:"diagnosis" json:"diagnosis"`
	Summary        string                 `bson:"summary" json:"summary"`
	PatientName    string                 `bson:"patientName" json:"patientName"`
	PatientAge     int                    `bson:"patientAge" json:"patientAge"`
	Gender         string                 `bson:"gender" json:"gender"`
	Height         string                 `bson:"height" json:"height"`
	Weight         string                 `bson:"weight" json:"weight"`
	Allergies      []string               `bson:"allergies" json:"allergies"`
	ContactNo      string                 `bson:"contactNo" json:"contactNo"`
}

// AppendResult is the outcome of a medication append
type AppendResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
