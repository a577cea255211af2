package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Doctor is a stored doctor account. PasswordHash never leaves the
// service boundary.
type Doctor struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	DoctorID       string             `bson:"DoctorID" json:"doctorId"`
	DoctorName     string             `bson:"DoctorName" json:"doctorName"`
	Email          string             `bson:"Email" json:"email"`
	ContactNo      string             `bson:"ContactNo" json:"contactNo"`
	Specialization string             `bson:"Specialization" json:"specialization"`
	PasswordHash   string             `bson:"PasswordHash" json:"-"`
	CreatedAt      time.Time          `bson:"CreatedAt" json:"createdAt"`
}

// DoctorRegistrationRequest is the sign-up input
type DoctorRegistrationRequest struct {
	DoctorName     string `json:"doctorName"`
	Email          string `json:"email"`
	ContactNo      string `json:"contactNo"`
	Specialization string `json:"specialization"`
	Password       string `json:"password"`
}

// Credentials is the sign-in input
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the sign-in output: doctor identity plus a signed
// access token
type AuthResult struct {
	DoctorID   string `json:"doctorId"`
	DoctorName string `json:"doctorName"`
	Email      string `json:"email"`
	Token      string `json:"token"`
}
