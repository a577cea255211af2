package prescriptions

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gdpranavl/SanjeevanAI/pkg/database"
	"github.com/gdpranavl/SanjeevanAI/pkg/logger"
	"github.com/gdpranavl/SanjeevanAI/pkg/monitoring"
	"github.com/gdpranavl/SanjeevanAI/pkg/types"
)

const (
	prescriptionsCollection = "prescriptions"
	medicationsCollection   = "medications"
)

// Repository implements prescription and medication catalog storage on
// MongoDB
type Repository struct {
	conn    *database.Connection
	logger  *logger.Logger
	metrics *monitoring.MetricsCollector
}

// NewRepository creates a new prescription repository
func NewRepository(conn *database.Connection, log *logger.Logger, metrics *monitoring.MetricsCollector) *Repository {
	return &Repository{
		conn:    conn,
		logger:  log,
		metrics: metrics,
	}
}

// AppendMedicationItem atomically appends one item to the prescription
// matched by caseID. No upsert: the intake pipeline owns prescription
// creation, so a missing prescription is not found.
func (r *Repository) AppendMedicationItem(ctx context.Context, caseID string, item *types.MedicationItem) error {
	ctx, cancel := context.WithTimeout(ctx, r.conn.OperationTimeout())
	defer cancel()

	start := time.Now()
	var result *mongo.UpdateResult
	err := monitoring.ObserveMongoOperation(r.metrics, "updateOne", prescriptionsCollection, func() error {
		var opErr error
		result, opErr = r.conn.Collection(prescriptionsCollection).UpdateOne(ctx, bson.M{"CaseID": caseID}, appendUpdate(item))
		return opErr
	})
	if err != nil {
		r.logger.DatabaseOperation(ctx, "updateOne", prescriptionsCollection, time.Since(start).Milliseconds(), 0, false, nil)
		return translateMongoError(err, "failed to append medication item")
	}
	r.logger.DatabaseOperation(ctx, "updateOne", prescriptionsCollection, time.Since(start).Milliseconds(), result.ModifiedCount, true, nil)

	if result.MatchedCount == 0 {
		return types.NewNotFoundError(types.ErrCodeNotFound, "Prescription not found")
	}

	return nil
}

// ViewByCaseID returns the joined prescription view for one case
func (r *Repository) ViewByCaseID(ctx context.Context, caseID string) (*types.PrescriptionView, error) {
	ctx, cancel := context.WithTimeout(ctx, r.conn.OperationTimeout())
	defer cancel()

	start := time.Now()
	var views []types.PrescriptionView
	err := monitoring.ObserveMongoOperation(r.metrics, "aggregate", prescriptionsCollection, func() error {
		cursor, opErr := r.conn.Collection(prescriptionsCollection).Aggregate(ctx, prescriptionViewPipeline(caseID))
		if opErr != nil {
			return opErr
		}
		defer cursor.Close(ctx)
		return cursor.All(ctx, &views)
	})
	if err != nil {
		r.logger.DatabaseOperation(ctx, "aggregate", prescriptionsCollection, time.Since(start).Milliseconds(), 0, false, nil)
		return nil, translateMongoError(err, "failed to aggregate prescription view")
	}
	r.logger.DatabaseOperation(ctx, "aggregate", prescriptionsCollection, time.Since(start).Milliseconds(), int64(len(views)), true, nil)

	if len(views) == 0 {
		return nil, types.NewNotFoundError(types.ErrCodeNotFound, "Prescription not found")
	}

	return &views[0], nil
}

// ListMedications returns the full medication catalog
func (r *Repository) ListMedications(ctx context.Context) ([]types.MedicationOption, error) {
	ctx, cancel := context.WithTimeout(ctx, r.conn.OperationTimeout())
	defer cancel()

	options := make([]types.MedicationOption, 0)
	err := monitoring.ObserveMongoOperation(r.metrics, "find", medicationsCollection, func() error {
		cursor, opErr := r.conn.Collection(medicationsCollection).Find(ctx, bson.M{})
		if opErr != nil {
			return opErr
		}
		defer cursor.Close(ctx)
		return cursor.All(ctx, &options)
	})
	if err != nil {
		return nil, translateMongoError(err, "failed to list medications")
	}

	return options, nil
}

// translateMongoError maps driver failures onto the service error
// taxonomy
func translateMongoError(err error, message string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return types.NewNotFoundError(types.ErrCodeNotFound, "Prescription not found")
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return types.NewConnectionError(types.ErrCodeDatabaseUnavailable, message, err)
	}
	return types.NewInternalError(types.ErrCodeInternalError, message, err)
}
