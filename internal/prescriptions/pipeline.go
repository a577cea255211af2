package prescriptions

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// prescriptionViewPipeline builds the aggregation joining one
// prescription with the medication catalog, its case, and its patient.
// Every join is left-preserving so an item whose catalog reference no
// longer resolves, or a prescription whose case or patient is missing,
// still produces a view.
func prescriptionViewPipeline(caseID string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"CaseID": caseID}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$MedicationItems",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "medications",
			"localField":   "MedicationItems.MedicationPlan.Main",
			"foreignField": "MedicationID",
			"as":           "medication",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$medication",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":            "$_id",
			"PrescriptionID": bson.M{"$first": "$PrescriptionID"},
			"CaseID":         bson.M{"$first": "$CaseID"},
			"PatientID":      bson.M{"$first": "$PatientID"},
			"MajorNotes":     bson.M{"$first": "$MajorNotes"},
			"medications": bson.M{"$push": bson.M{
				"medicationId":    "$MedicationItems.MedicationPlan.Main",
				"medicationName":  "$medication.MedicationName",
				"dosage":          "$MedicationItems.Dosage",
				"timing":          "$MedicationItems.Timing",
				"additionalNotes": "$MedicationItems.AdditionalNotes",
			}},
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "cases",
			"localField":   "CaseID",
			"foreignField": "CaseID",
			"as":           "case",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$case",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "patients",
			"localField":   "PatientID",
			"foreignField": "PatientID",
			"as":           "patient",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$patient",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":            0,
			"PrescriptionID": 1,
			"CaseID":         1,
			"PatientID":      1,
			"MajorNotes":     1,
			"medications":    1,
			"diagnosis":      "$case.RADS.Diagnosis",
			"summary":        "$case.Summary",
			"patientName":    "$patient.PatientName",
			"patientAge":     "$patient.PatientAge",
			"gender":         "$patient.Gender",
			"height":         "$patient.Height",
			"weight":         "$patient.Weight",
			"allergies":      "$patient.Allergies",
			"contactNo":      "$patient.ContactNo",
		}}},
	}
}

// appendUpdate builds the atomic medication append. $push is the only
// mutation shape used here; items are never written read-modify-write.
func appendUpdate(item interface{}) bson.M {
	return bson.M{"$push": bson.M{"MedicationItems": item}}
}
