package cases

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

const casesCollection = "cases"

// Repository implements case storage on MongoDB
type Repository struct {
	conn    *database.Connection
	logger  *logger.Logger
	metrics *monitoring.MetricsCollector
}

// NewRepository creates a new case repository
func NewRepository(conn *database.Connection, log *logger.Logger, metrics *monitoring.MetricsCollector) *Repository {
	return &Repository{
		conn:    conn,
		logger:  log,
		metrics: metrics,
	}
}

// ApplyMutation applies one atomic mutation to the case identified by
// caseID. With a pinned version a no-match against an existing case is
// reported as a conflict instead of not found.
func (r *Repository) ApplyMutation(ctx context.Context, caseID string, mutation *types.CaseMutation) error {
	ctx, cancel := context.WithTimeout(ctx, r.conn.OperationTimeout())
	defer cancel()

	now := time.Now().UTC().Format(time.RFC3339)
	filter := mutationFilter(caseID, mutation.Version)
	update := mutationUpdate(mutation, now)

	start := time.Now()
	var result *mongo.UpdateResult
	err := monitoring.ObserveMongoOperation(r.metrics, "updateOne", casesCollection, func() error {
		var opErr error
		result, opErr = r.conn.Collection(casesCollection).UpdateOne(ctx, filter, update)
		return opErr
	})
	if err != nil {
		r.logger.DatabaseOperation(ctx, "updateOne", casesCollection, time.Since(start).Milliseconds(), 0, false, nil)
		return translateMongoError(err, "failed to update case")
	}
	r.logger.DatabaseOperation(ctx, "updateOne", casesCollection, time.Since(start).Milliseconds(), result.ModifiedCount, true, nil)

	if result.MatchedCount == 0 {
		if mutation.Version > 0 {
			// Distinguish a stale version from a missing case
			var count int64
			countErr := monitoring.ObserveMongoOperation(r.metrics, "countDocuments", casesCollection, func() error {
				var opErr error
				count, opErr = r.conn.Collection(casesCollection).CountDocuments(ctx, bson.M{"CaseID": caseID})
				return opErr
			})
			if countErr != nil {
				return translateMongoError(countErr, "failed to check case existence")
			}
			if count > 0 {
				return types.NewConflictError(types.ErrCodeConflict, "Case was modified by another request")
			}
		}
		return types.NewNotFoundError(types.ErrCodeNotFound, "Case not found")
	}

	return nil
}

// ViewByID returns the flat case+patient view for one case
func (r *Repository) ViewByID(ctx context.Context, caseID string) (*types.CaseView, error) {
	views, err := r.aggregateViews(ctx, caseViewPipeline(bson.M{"CaseID": caseID}, false))
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, types.NewNotFoundError(types.ErrCodeNotFound, "Case not found")
	}
	return &views[0], nil
}

// ViewsByStatus returns case+patient views whose stored status matches
// the canonical status under every legacy encoding, newest first.
func (r *Repository) ViewsByStatus(ctx context.Context, status types.ApprovalStatus) ([]types.CaseView, error) {
	return r.aggregateViews(ctx, caseViewPipeline(statusFilter(status), true))
}

func (r *Repository) aggregateViews(ctx context.Context, pipeline mongo.Pipeline) ([]types.CaseView, error) {
	ctx, cancel := context.WithTimeout(ctx, r.conn.OperationTimeout())
	defer cancel()

	start := time.Now()
	views := make([]types.CaseView, 0)
	err := monitoring.ObserveMongoOperation(r.metrics, "aggregate", casesCollection, func() error {
		cursor, opErr := r.conn.Collection(casesCollection).Aggregate(ctx, pipeline)
		if opErr != nil {
			return opErr
		}
		defer cursor.Close(ctx)
		return cursor.All(ctx, &views)
	})
	if err != nil {
		r.logger.DatabaseOperation(ctx, "aggregate", casesCollection, time.Since(start).Milliseconds(), 0, false, nil)
		return nil, translateMongoError(err, "failed to aggregate case views")
	}
	r.logger.DatabaseOperation(ctx, "aggregate", casesCollection, time.Since(start).Milliseconds(), int64(len(views)), true, nil)

	return views, nil
}

// translateMongoError maps driver failures onto the service error
// taxonomy
func translateMongoError(err error, message string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return types.NewNotFoundError(types.ErrCodeNotFound, "Case not found")
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return types.NewConnectionError(types.ErrCodeDatabaseUnavailable, message, err)
	}
	return types.NewInternalError(types.ErrCodeInternalError, message, err)
}
