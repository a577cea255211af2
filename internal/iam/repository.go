package iam

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gdpranavl/SanjeevanAI/pkg/database"
	"github.com/gdpranavl/SanjeevanAI/pkg/logger"
	"github.com/gdpranavl/SanjeevanAI/pkg/monitoring"
	"github.com/gdpranavl/SanjeevanAI/pkg/types"
)

const doctorsCollection = "doctors"

// Repository implements doctor account storage on MongoDB
type Repository struct {
	conn    *database.Connection
	logger  *logger.Logger
	metrics *monitoring.MetricsCollector
}

// NewRepository creates a new doctor repository
func NewRepository(conn *database.Connection, log *logger.Logger, metrics *monitoring.MetricsCollector) *Repository {
	return &Repository{
		conn:    conn,
		logger:  log,
		metrics: metrics,
	}
}

// EnsureIndexes creates the unique Email index that backs the duplicate
// account check. Safe to call on every startup; createIndexes is
// idempotent for an identical spec.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.conn.OperationTimeout())
	defer cancel()

	err := monitoring.ObserveMongoOperation(r.metrics, "createIndexes", doctorsCollection, func() error {
		_, opErr := r.conn.Collection(doctorsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "Email", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		return opErr
	})
	if err != nil {
		return translateMongoError(err, "failed to create doctor indexes")
	}

	return nil
}

// Create inserts a new doctor account. The unique Email index turns a
// concurrent duplicate signup into a duplicate key error here.
func (r *Repository) Create(ctx context.Context, doctor *types.Doctor) error {
	ctx, cancel := context.WithTimeout(ctx, r.conn.OperationTimeout())
	defer cancel()

	err := monitoring.ObserveMongoOperation(r.metrics, "insertOne", doctorsCollection, func() error {
		_, opErr := r.conn.Collection(doctorsCollection).InsertOne(ctx, doctor)
		return opErr
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return types.NewValidationError("EMAIL_EXISTS", "Doctor with this email already exists")
		}
		return translateMongoError(err, "failed to create doctor")
	}

	return nil
}

// GetByEmail returns the doctor account registered under email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*types.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, r.conn.OperationTimeout())
	defer cancel()

	return r.findOne(ctx, bson.M{"Email": email}, "failed to get doctor by email")
}

// GetByID returns the doctor account with the given DoctorID
func (r *Repository) GetByID(ctx context.Context, doctorID string) (*types.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, r.conn.OperationTimeout())
	defer cancel()

	return r.findOne(ctx, bson.M{"DoctorID": doctorID}, "failed to get doctor by id")
}

// findOne runs a single-document lookup. An empty result is surfaced as
// a not-found error without counting against the database error metric,
// since callers routinely probe for absent accounts.
func (r *Repository) findOne(ctx context.Context, filter bson.M, message string) (*types.Doctor, error) {
	var doctor types.Doctor
	var missing bool
	err := monitoring.ObserveMongoOperation(r.metrics, "findOne", doctorsCollection, func() error {
		decodeErr := r.conn.Collection(doctorsCollection).FindOne(ctx, filter).Decode(&doctor)
		if errors.Is(decodeErr, mongo.ErrNoDocuments) {
			missing = true
			return nil
		}
		return decodeErr
	})
	if err != nil {
		return nil, translateMongoError(err, message)
	}
	if missing {
		return nil, types.NewNotFoundError(types.ErrCodeNotFound, "Doctor not found")
	}
	return &doctor, nil
}

// translateMongoError maps driver failures onto the service error
// taxonomy so raw driver errors never cross the workflow boundary.
func translateMongoError(err error, message string) error {
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return types.NewConnectionError(types.ErrCodeDatabaseUnavailable, message, err)
	}
	return types.NewInternalError(types.ErrCodeInternalError, message, err)
}
