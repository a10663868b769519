package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
)

const collectionApplications = "applications"

type ApplicationRepository struct {
	col *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{col: db.Collection(collectionApplications)}
}

// Create inserts a new application document.
func (r *ApplicationRepository) Create(ctx context.Context, a *domain.Application) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, a)
	if err != nil {
		return err
	}
	return nil
}

// Get retrieves an application by id.
func (r *ApplicationRepository) Get(ctx context.Context, id string) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Application
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListByUser returns a user's applications in insertion order.
func (r *ApplicationRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Application, error) {
	return r.list(ctx, bson.M{"user_id": userID}, bson.D{{Key: "created_at", Value: 1}})
}

// ListPending returns pending applications newest first.
func (r *ApplicationRepository) ListPending(ctx context.Context) ([]*domain.Application, error) {
	return r.list(ctx, bson.M{"status": domain.StatusPending}, bson.D{{Key: "created_at", Value: -1}})
}

// ListPendingDeposits returns pending deposits oldest first, the FIFO order
// the review queue works in.
func (r *ApplicationRepository) ListPendingDeposits(ctx context.Context) ([]*domain.Application, error) {
	filter := bson.M{"type": domain.TypeDeposit, "status": domain.StatusPending}
	return r.list(ctx, filter, bson.D{{Key: "created_at", Value: 1}})
}

func (r *ApplicationRepository) list(ctx context.Context, filter bson.M, sort bson.D) ([]*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.Application
	for cur.Next(ctx) {
		var a domain.Application
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, cur.Err()
}

// UpdateStatus transitions an application as a single compare-and-swap: the
// filter includes the expected source status, so of two racing reviewers only
// one update matches. A miss is classified by re-reading the document.
// Transitions outside the status state machine are rejected before any query,
// so terminal records can never be rewritten regardless of the caller.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ApplicationStatus, adminID int64, adminResponse string) error {
	if !from.CanTransitionTo(to) {
		return domain.ErrInvalidTransition
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"status":     to,
		"admin_id":   adminID,
		"updated_at": time.Now().UTC(),
	}
	if adminResponse != "" {
		set["admin_response"] = adminResponse
	}

	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
	).Err()
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	if _, getErr := r.Get(ctx, id); getErr != nil {
		return getErr
	}
	return domain.ErrInvalidTransition
}

// SetResponse attaches a staff reply without touching the status.
func (r *ApplicationRepository) SetResponse(ctx context.Context, id string, adminID int64, response string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"admin_id":       adminID,
			"admin_response": response,
			"updated_at":     time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

// Delete removes an application document.
func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the applications collection.
func (r *ApplicationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "type", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "tx_hash", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
