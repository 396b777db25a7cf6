package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/minisocial/socialnet/internal/core/domain"
)

const collectionFollows = "follows"

// FollowRepository implements ports.FollowRepository using one document per
// account: {username, following: [...]}. Each mutation is a single atomic
// update, so no read-modify-write window exists.
type FollowRepository struct {
	col *mongo.Collection
}

func NewFollowRepository(db *mongo.Database) *FollowRepository {
	return &FollowRepository{col: db.Collection(collectionFollows)}
}

type mongoFollowEntry struct {
	Username  string   `bson:"username"`
	Following []string `bson:"following"`
}

func (r *FollowRepository) EnsureEntry(ctx context.Context, username string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$setOnInsert": bson.M{"following": bson.A{}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("ensure follow entry: %w", err)
	}
	return nil
}

func (r *FollowRepository) Follow(ctx context.Context, follower, target string) error {
	if err := domain.CheckFollowTarget(follower, target); err != nil {
		return err
	}
	if err := r.EnsureEntry(ctx, follower); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"username": follower, "following": bson.M{"$ne": target}},
		bson.M{"$push": bson.M{"following": target}},
	)
	if err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAlreadyFollowing
	}
	return nil
}

func (r *FollowRepository) Unfollow(ctx context.Context, follower, target string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"username": follower, "following": target},
		bson.M{"$pull": bson.M{"following": target}},
	)
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFollowing
	}
	return nil
}

func (r *FollowRepository) IsFollowing(ctx context.Context, follower, target string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"username": follower, "following": target}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("is following: %w", err)
	}
	return n > 0, nil
}

func (r *FollowRepository) FollowedBy(ctx context.Context, username string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var entry mongoFollowEntry
	err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("followed by: %w", err)
	}
	if entry.Following == nil {
		return []string{}, nil
	}
	return entry.Following, nil
}

// EnsureIndexes makes username unique so each account has exactly one entry.
func (r *FollowRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
