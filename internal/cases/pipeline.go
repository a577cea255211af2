package cases

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gdpranavl/SanjeevanAI/pkg/types"
)

// statusFilter builds the legacy-tolerant match for one canonical
// status. Stored documents encode status as strings in arbitrary casing
// or as booleans (true meaning approved, false meaning pending), so the
// filter has to accept every encoding that normalizes to the requested
// status.
func statusFilter(status types.ApprovalStatus) bson.M {
	pattern := primitive.Regex{Pattern: "^" + string(status) + "$", Options: "i"}

	switch status {
	case types.StatusApproved:
		return bson.M{"$or": bson.A{
			bson.M{"ApprovalStatus": pattern},
			bson.M{"ApprovalStatus": true},
		}}
	case types.StatusPending:
		return bson.M{"$or": bson.A{
			bson.M{"ApprovalStatus": pattern},
			bson.M{"ApprovalStatus": false},
		}}
	default:
		return bson.M{"ApprovalStatus": pattern}
	}
}

// mutationFilter builds the update filter for one case. A positive
// version pins the expected document version for optimistic concurrency.
func mutationFilter(caseID string, version int64) bson.M {
	filter := bson.M{"CaseID": caseID}
	if version > 0 {
		filter["Version"] = version
	}
	return filter
}

// mutationUpdate builds the single atomic update document for a case
// mutation: field edits and status via $set, audit notes via $push with
// $each (insertion order preserved), version bump via $inc.
func mutationUpdate(mutation *types.CaseMutation, now string) bson.M {
	set := bson.M{}

	if mutation.StatusChanged {
		set["ApprovalStatus"] = string(mutation.Status)
		set["ApprovalTimestamp"] = now
	}
	if mutation.Edits.Diagnosis != "" {
		set["RADS.Diagnosis"] = mutation.Edits.Diagnosis
	}
	if mutation.Edits.Research != "" {
		set["RADS.Research"] = mutation.Edits.Research
	}
	if mutation.Edits.Analysis != "" {
		set["RADS.Analysis"] = mutation.Edits.Analysis
	}
	if mutation.Edits.Summary != "" {
		set["Summary"] = mutation.Edits.Summary
	}

	update := bson.M{"$inc": bson.M{"Version": 1}}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(mutation.Notes) > 0 {
		update["$push"] = bson.M{
			"Prescriptions": bson.M{"$each": mutation.Notes},
		}
	}

	return update
}

// caseViewProjection is the flat case+patient view shape
func caseViewProjection() bson.M {
	return bson.M{
		"_id":               0,
		"CaseID":            1,
		"PatientID":         1,
		"PrescriptionID":    1,
		"ApprovalStatus":    1,
		"CriticalityNumber": 1,
		"Summary":           1,
		"Transcripts":       1,
		"Timestamp":         1,
		"Version":           1,
		"diagnosis":         "$RADS.Diagnosis",
		"speciality":        "$RADS.Speciality",
		"research":          "$RADS.Research",
		"analysis":          "$RADS.Analysis",
		"notes":             "$Prescriptions",
		"name":              "$patient.PatientName",
		"age":               "$patient.PatientAge",
		"gender":            "$patient.Gender",
		"contactNo":         "$patient.ContactNo",
		"email":             "$patient.Email",
		"height":            "$patient.Height",
		"weight":            "$patient.Weight",
		"medicalHistory":    "$patient.MedicalHistory.Summary",
		"allergies":         "$patient.Allergies",
	}
}

// caseViewPipeline builds the aggregation joining cases with their
// patient records. The join is left-preserving: a case whose patient is
// missing still yields a view with empty patient fields.
func caseViewPipeline(match bson.M, sorted bool) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
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
		bson.D{{Key: "$project", Value: caseViewProjection()}},
	}

	if sorted {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.M{"Timestamp": -1}}})
	}

	return pipeline
}
