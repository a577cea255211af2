//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/gdpranavl/SanjeevanAI/internal/cases"
	"github.com/gdpranavl/SanjeevanAI/internal/prescriptions"
	"github.com/gdpranavl/SanjeevanAI/pkg/config"
	"github.com/gdpranavl/SanjeevanAI/pkg/database"
	"github.com/gdpranavl/SanjeevanAI/pkg/logger"
	"github.com/gdpranavl/SanjeevanAI/pkg/monitoring"
	"github.com/gdpranavl/SanjeevanAI/pkg/types"
)

// Requires a running MongoDB; set MONGODB_TEST_URI to enable.
func testConnection(t *testing.T) *database.Connection {
	t.Helper()

	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	cfg := &config.DatabaseConfig{
		URI:              uri,
		Name:             fmt.Sprintf("maindb_test_%d", time.Now().UnixNano()),
		MaxPoolSize:      5,
		MinPoolSize:      1,
		ConnectTimeout:   10,
		OperationTimeout: 10,
	}

	conn, err := database.NewConnection(cfg, logger.New("error"))
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = conn.Database().Drop(ctx)
		_ = conn.Close(ctx)
	})

	return conn
}

func seedCase(t *testing.T, conn *database.Connection, caseID string, status interface{}) {
	t.Helper()

	ctx := context.Background()
	_, err := conn.Collection("cases").InsertOne(ctx, bson.M{
		"CaseID":         caseID,
		"PatientID":      "P001",
		"ApprovalStatus": status,
		"RADS": bson.M{
			"Diagnosis":  "initial",
			"Speciality": "general",
		},
		"Summary":   "initial summary",
		"Timestamp": time.Now().UTC().Format(time.RFC3339),
		"Version":   int64(1),
	})
	require.NoError(t, err)

	_, err = conn.Collection("patients").InsertOne(ctx, bson.M{
		"PatientID":   "P001",
		"PatientName": "Asha Rao",
		"PatientAge":  34,
		"Gender":      "F",
	})
	require.NoError(t, err)
}

func TestApproveThenListWorkflow(t *testing.T) {
	conn := testConnection(t)
	log := logger.New("error")

	repo := cases.NewRepository(conn, log, monitoring.NewMetricsCollector("case-service"))
	service := cases.NewService(repo, log)
	ctx := context.Background()

	seedCase(t, conn, "C100", "pending")

	view, err := service.SetApprovalStatus(ctx, &types.ApprovalRequest{
		CaseID: "C100",
		Status: types.StatusApproved,
		Edits:  types.CaseEdits{Summary: "ok"},
	})
	require.NoError(t, err)
	assert.Equal(t, types.StatusApproved, view.ApprovalStatus)
	assert.Equal(t, "ok", view.Summary)
	assert.Equal(t, "Asha Rao", view.PatientName)
	require.NotEmpty(t, view.Notes)
	assert.Equal(t, types.NoteTypeApproval, view.Notes[len(view.Notes)-1].Type)

	approved, err := service.GetCasesView(ctx, types.StatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "C100", approved[0].CaseID)

	pending, err := service.GetCasesView(ctx, types.StatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestLegacyBooleanStatusListing(t *testing.T) {
	conn := testConnection(t)
	log := logger.New("error")

	repo := cases.NewRepository(conn, log, monitoring.NewMetricsCollector("case-service"))
	service := cases.NewService(repo, log)
	ctx := context.Background()

	seedCase(t, conn, "C200", true)

	approved, err := service.GetCasesView(ctx, types.StatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, types.StatusApproved, approved[0].ApprovalStatus)
}

func TestVersionConflictDetection(t *testing.T) {
	conn := testConnection(t)
	log := logger.New("error")

	repo := cases.NewRepository(conn, log, monitoring.NewMetricsCollector("case-service"))
	service := cases.NewService(repo, log)
	ctx := context.Background()

	seedCase(t, conn, "C300", "pending")

	_, err := service.SetApprovalStatus(ctx, &types.ApprovalRequest{
		CaseID:  "C300",
		Status:  types.StatusApproved,
		Version: 1,
	})
	require.NoError(t, err)

	// Second request carrying the stale version must conflict
	_, err = service.SetApprovalStatus(ctx, &types.ApprovalRequest{
		CaseID:  "C300",
		Status:  types.StatusRejected,
		Version: 1,
	})
	require.Error(t, err)
	assert.True(t, types.IsConflict(err))
}

func TestConcurrentMedicationAppends(t *testing.T) {
	conn := testConnection(t)
	log := logger.New("error")

	repo := prescriptions.NewRepository(conn, log, monitoring.NewMetricsCollector("case-service"))
	service := prescriptions.NewService(repo, log)
	ctx := context.Background()

	_, err := conn.Collection("prescriptions").InsertOne(ctx, bson.M{
		"PrescriptionID":  "RX001",
		"CaseID":          "C400",
		"PatientID":       "P001",
		"MedicationItems": bson.A{},
	})
	require.NoError(t, err)

	const n = 20
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			_, err := service.AppendMedicationItem(ctx, "C400", &types.MedicationItem{
				MedicationPlan: types.MedicationPlan{Main: fmt.Sprintf("M%03d", i)},
			})
			errs <- err
		}(i)
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-errs)
	}

	var prescription types.Prescription
	err = conn.Collection("prescriptions").FindOne(ctx, bson.M{"CaseID": "C400"}).Decode(&prescription)
	require.NoError(t, err)
	assert.Len(t, prescription.MedicationItems, n)
}
