package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/aussiebroadwan/userapi/internal/users/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// userDoc is the stored shape of a user.
type userDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toDoc(u domain.User) userDoc {
	return userDoc{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
}

func (d userDoc) toDomain() domain.User {
	return domain.User{
		ID:           d.ID,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Role:         domain.Role(d.Role),
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

func toDomain(docs []userDoc) []domain.User {
	out := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out
}

var byID = options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

type usersRepo struct {
	col *mongo.Collection
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	d, err := findOne[userDoc](ctx, r.col, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return domain.User{}, err
	}
	return d.toDomain(), nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	d, err := findOne[userDoc](ctx, r.col, bson.D{{Key: "username", Value: username}})
	if err != nil {
		return domain.User{}, err
	}
	return d.toDomain(), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	if !u.Role.Valid() {
		return domain.ErrInvalidRole
	}
	return insertOne(ctx, r.col, toDoc(u))
}

func (r *usersRepo) ListUsers(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	total, err := r.col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", wrapError(err))
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	docs, err := findMany[userDoc](ctx, r.col, bson.D{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return toDomain(docs), total, nil
}

// SearchUsers quotes the needle so regex metacharacters match literally.
func (r *usersRepo) SearchUsers(ctx context.Context, f domain.UserFilter) ([]domain.User, error) {
	filter := bson.D{}
	if f.UsernameContains != "" {
		filter = append(filter, bson.E{Key: "username", Value: bson.Regex{
			Pattern: regexp.QuoteMeta(f.UsernameContains),
			Options: "i",
		}})
	}
	if f.Role != "" {
		filter = append(filter, bson.E{Key: "role", Value: string(f.Role)})
	}

	docs, err := findMany[userDoc](ctx, r.col, filter, byID)
	if err != nil {
		return nil, err
	}
	return toDomain(docs), nil
}

func (r *usersRepo) UpdateUsername(ctx context.Context, id, username string) (domain.User, error) {
	d, err := updateFields[userDoc](ctx, r.col, id, bson.D{
		{Key: "username", Value: username},
		{Key: "updated_at", Value: time.Now().UTC()},
	})
	if err != nil {
		return domain.User{}, err
	}
	return d.toDomain(), nil
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	_, err := updateFields[userDoc](ctx, r.col, id, bson.D{
		{Key: "password_hash", Value: hash},
		{Key: "updated_at", Value: time.Now().UTC()},
	})
	return err
}

func (r *usersRepo) DeleteUser(ctx context.Context, id string) (domain.User, error) {
	d, err := deleteByID[userDoc](ctx, r.col, id)
	if err != nil {
		return domain.User{}, err
	}
	return d.toDomain(), nil
}

func (r *usersRepo) CountUsers(ctx context.Context) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.D{})
	return n, wrapError(err)
}
