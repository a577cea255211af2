package prescriptions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/gdpranavl/SanjeevanAI/pkg/config"
	"github.com/gdpranavl/SanjeevanAI/pkg/database"
	"github.com/gdpranavl/SanjeevanAI/pkg/logger"
	"github.com/gdpranavl/SanjeevanAI/pkg/monitoring"
	"github.com/gdpranavl/SanjeevanAI/pkg/types"
)

func newMockRepository(mt *mtest.T) *Repository {
	cfg := &config.DatabaseConfig{Name: "maindb", OperationTimeout: 5}
	conn := database.WrapClient(mt.Client, cfg, logger.New("error"))
	return NewRepository(conn, logger.New("error"), monitoring.NewMetricsCollector("case-service"))
}

func TestAppendMedicationItem_Driver(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	item := &types.MedicationItem{
		MedicationPlan: types.MedicationPlan{Main: "M001"},
		Dosage:         types.Dosage{M: true, N: true},
	}

	mt.Run("matched prescription appends cleanly", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := repo.AppendMedicationItem(context.Background(), "C100", item)
		require.NoError(mt, err)
	})

	mt.Run("missing prescription is not found", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.AppendMedicationItem(context.Background(), "C404", item)
		require.Error(mt, err)
		assert.True(mt, types.IsNotFound(err))
	})

	mt.Run("command failure maps to internal error", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "update failed",
		}))

		err := repo.AppendMedicationItem(context.Background(), "C100", item)
		require.Error(mt, err)
		assert.Equal(mt, types.ErrorTypeInternal, types.TypeOf(err))
	})
}

func TestViewByCaseID_Driver(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes the joined view", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "maindb.prescriptions", mtest.FirstBatch,
			bson.D{
				{Key: "PrescriptionID", Value: "RX001"},
				{Key: "CaseID", Value: "C100"},
				{Key: "PatientID", Value: "P001"},
				{Key: "patientName", Value: "Asha Rao"},
				{Key: "medications", Value: bson.A{
					bson.D{
						{Key: "medicationId", Value: "M001"},
						{Key: "medicationName", Value: "Paracetamol"},
					},
				}},
			},
		))

		view, err := repo.ViewByCaseID(context.Background(), "C100")
		require.NoError(mt, err)
		assert.Equal(mt, "RX001", view.PrescriptionID)
		assert.Equal(mt, "Asha Rao", view.PatientName)
		require.Len(mt, view.Medications, 1)
		assert.Equal(mt, "Paracetamol", view.Medications[0].MedicationName)
	})

	mt.Run("empty result is not found", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "maindb.prescriptions", mtest.FirstBatch))

		_, err := repo.ViewByCaseID(context.Background(), "C404")
		require.Error(mt, err)
		assert.True(mt, types.IsNotFound(err))
	})
}

func TestListMedications_Driver(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns the catalog", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "maindb.medications", mtest.FirstBatch,
			bson.D{{Key: "MedicationID", Value: "M001"}, {Key: "MedicationName", Value: "Paracetamol"}},
			bson.D{{Key: "MedicationID", Value: "M002"}, {Key: "MedicationName", Value: "Ibuprofen"}},
		))

		options, err := repo.ListMedications(context.Background())
		require.NoError(mt, err)
		require.Len(mt, options, 2)
		assert.Equal(mt, "M001", options[0].ID)
		assert.Equal(mt, "Ibuprofen", options[1].Name)
	})

	mt.Run("empty catalog yields an empty slice", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "maindb.medications", mtest.FirstBatch))

		options, err := repo.ListMedications(context.Background())
		require.NoError(mt, err)
		assert.Empty(mt, options)
	})
}
