package types

import "go.mongodb.org/mongo-driver/bson/primitive"

// MedicalHistory is the nested history block on a patient record
type MedicalHistory struct {
	Summary string `bson:"Summary" json:"summary"`
}

// Patient is a stored patient document, written by the intake pipeline
// and read-only for this service.
type Patient struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	PatientID      string             `bson:"PatientID" json:"patientId"`
	PatientName    string             `bson:"PatientName" json:"patientName"`
	PatientAge     int                `bson:"PatientAge" json:"patientAge"`
	Gender         string             `bson:"Gender" json:"gender"`
	Height         string             `bson:"Height" json:"height"`
	Weight         string             `bson:"Weight" json:"weight"`
	Allergies      []string           `bson:"Allergies" json:"allergies"`
	MedicalHistory MedicalHistory     `bson:"MedicalHistory" json:"medicalHistory"`
	ContactNo      string             `bson:"ContactNo" json:"contactNo"`
	Email          string             `bson:"Email" json:"email"`
}
