package cases

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

const testNamespace = "maindb.cases"

func newMockRepository(mt *mtest.T) *Repository {
	cfg := &config.DatabaseConfig{Name: "maindb", OperationTimeout: 5}
	conn := database.WrapClient(mt.Client, cfg, logger.New("error"))
	return NewRepository(conn, logger.New("error"), monitoring.NewMetricsCollector("case-service"))
}

func TestApplyMutation_Driver(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mutation := &types.CaseMutation{
		Status:        types.StatusApproved,
		StatusChanged: true,
		Notes: []types.CaseNote{
			{Type: types.NoteTypeApproval, Content: "Case approved by doctor", AddedBy: "doc-1"},
		},
	}

	mt.Run("matched case updates cleanly", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := repo.ApplyMutation(context.Background(), "C100", mutation)
		require.NoError(mt, err)
	})

	mt.Run("stale version on existing case is a conflict", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 0},
				bson.E{Key: "nModified", Value: 0},
			),
			mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: int32(1)}},
			),
		)

		pinned := *mutation
		pinned.Version = 1
		err := repo.ApplyMutation(context.Background(), "C100", &pinned)
		require.Error(mt, err)
		assert.True(mt, types.IsConflict(err))
	})

	mt.Run("missing case with pinned version is not found", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 0},
				bson.E{Key: "nModified", Value: 0},
			),
			mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch),
		)

		pinned := *mutation
		pinned.Version = 1
		err := repo.ApplyMutation(context.Background(), "C404", &pinned)
		require.Error(mt, err)
		assert.True(mt, types.IsNotFound(err))
	})

	mt.Run("missing case without version is not found", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.ApplyMutation(context.Background(), "C404", mutation)
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

		err := repo.ApplyMutation(context.Background(), "C100", mutation)
		require.Error(mt, err)
		assert.Equal(mt, types.ErrorTypeInternal, types.TypeOf(err))
	})
}

func TestViewByID_Driver(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes the joined view", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch,
			bson.D{
				{Key: "CaseID", Value: "C100"},
				{Key: "PatientID", Value: "P001"},
				{Key: "ApprovalStatus", Value: "Approved"},
				{Key: "Summary", Value: "stable"},
				{Key: "name", Value: "Asha Rao"},
				{Key: "age", Value: 34},
				{Key: "Version", Value: int64(2)},
			},
		))

		view, err := repo.ViewByID(context.Background(), "C100")
		require.NoError(mt, err)
		assert.Equal(mt, "C100", view.CaseID)
		assert.Equal(mt, "Asha Rao", view.PatientName)
		assert.Equal(mt, 34, view.PatientAge)
		assert.Equal(mt, int64(2), view.Version)
	})

	mt.Run("empty result is not found", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))

		_, err := repo.ViewByID(context.Background(), "C404")
		require.Error(mt, err)
		assert.True(mt, types.IsNotFound(err))
	})
}

func TestViewsByStatus_Driver(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns every batch document", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch,
			bson.D{{Key: "CaseID", Value: "C2"}, {Key: "ApprovalStatus", Value: "pending"}},
			bson.D{{Key: "CaseID", Value: "C1"}, {Key: "ApprovalStatus", Value: false}},
		))

		views, err := repo.ViewsByStatus(context.Background(), types.StatusPending)
		require.NoError(mt, err)
		require.Len(mt, views, 2)
		assert.Equal(mt, "C2", views[0].CaseID)
		assert.Equal(mt, "C1", views[1].CaseID)
	})

	mt.Run("no matches yields an empty slice", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))

		views, err := repo.ViewsByStatus(context.Background(), types.StatusRejected)
		require.NoError(mt, err)
		assert.Empty(mt, views)
	})
}
