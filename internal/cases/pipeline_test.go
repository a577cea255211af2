package cases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/gdpranavl/SanjeevanAI/pkg/types"
)

func TestMutationFilter(t *testing.T) {
	filter := mutationFilter("C100", 0)
	assert.Equal(t, bson.M{"CaseID": "C100"}, filter)

	filter = mutationFilter("C100", 3)
	assert.Equal(t, bson.M{"CaseID": "C100", "Version": int64(3)}, filter)
}

func TestMutationUpdate_StatusChange(t *testing.T) {
	mutation := &types.CaseMutation{
		Status:        types.StatusApproved,
		StatusChanged: true,
		Edits:         types.CaseEdits{Summary: "ok"},
		Notes: []types.CaseNote{
			{Type: types.NoteTypeApproval, Content: "Case approved by doctor"},
		},
	}

	update := mutationUpdate(mutation, "2026-08-30T10:00:00Z")

	set := update["$set"].(bson.M)
	assert.Equal(t, "Approved", set["ApprovalStatus"])
	assert.Equal(t, "2026-08-30T10:00:00Z", set["ApprovalTimestamp"])
	assert.Equal(t, "ok", set["Summary"])

	assert.Equal(t, bson.M{"Version": 1}, update["$inc"])

	push := update["$push"].(bson.M)
	each := push["Prescriptions"].(bson.M)["$each"].([]types.CaseNote)
	require.Len(t, each, 1)
	assert.Equal(t, types.NoteTypeApproval, each[0].Type)
}

func TestMutationUpdate_EditsMapToNestedFields(t *testing.T) {
	mutation := &types.CaseMutation{
		Edits: types.CaseEdits{
			Diagnosis: "viral fever",
			Research:  "r",
			Analysis:  "a",
		},
	}

	update := mutationUpdate(mutation, "now")

	set := update["$set"].(bson.M)
	assert.Equal(t, "viral fever", set["RADS.Diagnosis"])
	assert.Equal(t, "r", set["RADS.Research"])
	assert.Equal(t, "a", set["RADS.Analysis"])
	assert.NotContains(t, set, "ApprovalStatus")
	assert.NotContains(t, set, "Summary")
	assert.NotContains(t, update, "$push")
}

func TestMutationUpdate_EmptyEditsStillBumpVersion(t *testing.T) {
	update := mutationUpdate(&types.CaseMutation{}, "now")

	assert.Equal(t, bson.M{"Version": 1}, update["$inc"])
	assert.NotContains(t, update, "$set")
	assert.NotContains(t, update, "$push")
}

func TestMutationUpdate_NotesOrderPreserved(t *testing.T) {
	mutation := &types.CaseMutation{
		Notes: []types.CaseNote{
			{Type: types.NoteTypeApprovalNotes, Content: "first"},
			{Type: types.NoteTypeApproval, Content: "second"},
		},
	}

	update := mutationUpdate(mutation, "now")

	each := update["$push"].(bson.M)["Prescriptions"].(bson.M)["$each"].([]types.CaseNote)
	require.Len(t, each, 2)
	assert.Equal(t, "first", each[0].Content)
	assert.Equal(t, "second", each[1].Content)
}

func TestStatusFilter_Approved(t *testing.T) {
	filter := statusFilter(types.StatusApproved)

	or := filter["$or"].(bson.A)
	require.Len(t, or, 2)
	assert.Equal(t, bson.M{"ApprovalStatus": true}, or[1])
}

func TestStatusFilter_Pending(t *testing.T) {
	filter := statusFilter(types.StatusPending)

	or := filter["$or"].(bson.A)
	require.Len(t, or, 2)
	assert.Equal(t, bson.M{"ApprovalStatus": false}, or[1])
}

func TestStatusFilter_Rejected(t *testing.T) {
	filter := statusFilter(types.StatusRejected)

	// No boolean encoding maps to rejected
	assert.NotContains(t, filter, "$or")
	assert.Contains(t, filter, "ApprovalStatus")
}

func TestCaseViewPipeline_Stages(t *testing.T) {
	pipeline := caseViewPipeline(bson.M{"CaseID": "C100"}, true)

	require.Len(t, pipeline, 5)
	assert.Equal(t, "$match", pipeline[0][0].Key)
	assert.Equal(t, "$lookup", pipeline[1][0].Key)
	assert.Equal(t, "$unwind", pipeline[2][0].Key)
	assert.Equal(t, "$project", pipeline[3][0].Key)
	assert.Equal(t, "$sort", pipeline[4][0].Key)

	// The patient join must preserve cases without a patient
	unwind := pipeline[2][0].Value.(bson.M)
	assert.Equal(t, true, unwind["preserveNullAndEmptyArrays"])

	sort := pipeline[4][0].Value.(bson.M)
	assert.Equal(t, -1, sort["Timestamp"])
}

func TestCaseViewPipeline_Unsorted(t *testing.T) {
	pipeline := caseViewPipeline(bson.M{"CaseID": "C100"}, false)
	require.Len(t, pipeline, 4)
}
