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

const collectionRoles = "user_roles"

// RoleRepository stores one document per user keyed by the platform user id,
// so a user is in exactly one role partition by construction.
type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

type roleDoc struct {
	UserID    int64       `bson:"_id"`
	Role      domain.Role `bson:"role"`
	UpdatedAt time.Time   `bson:"updated_at"`
}

// Get returns the stored role, or RoleUser when the user has no assignment.
func (r *RoleRepository) Get(ctx context.Context, userID int64) (domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc roleDoc
	err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.RoleUser, nil
		}
		return domain.RoleUser, err
	}
	return doc.Role, nil
}

// Set upserts the user's role document. Idempotent.
func (r *RoleRepository) Set(ctx context.Context, userID int64, role domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := roleDoc{UserID: userID, Role: role, UpdatedAt: time.Now().UTC()}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": userID}, doc, options.Replace().SetUpsert(true))
	return err
}

// ListByRole enumerates user ids holding the given role.
func (r *RoleRepository) ListByRole(ctx context.Context, role domain.Role) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"role": role})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []int64
	for cur.Next(ctx) {
		var doc roleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.UserID)
	}
	return out, cur.Err()
}
