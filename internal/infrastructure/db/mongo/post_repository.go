package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/minisocial/socialnet/internal/core/domain"
	"github.com/minisocial/socialnet/internal/pkg/validate"
)

const collectionPosts = "posts"

// PostRepository implements ports.PostRepository using MongoDB. Storage order
// is _id order; ObjectIDs generated by the driver increase with insert time.
type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPosts)}
}

type mongoPost struct {
	OID       primitive.ObjectID `bson:"_id,omitempty"`
	ID        string             `bson:"post_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Username  string             `bson:"username"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (r *PostRepository) Append(ctx context.Context, post *domain.Post) error {
	if err := validate.Struct(post); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, mongoPost{
		OID:       primitive.NewObjectID(),
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Username:  post.Username,
		CreatedAt: post.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *PostRepository) All(ctx context.Context) ([]domain.Post, error) {
	return r.find(ctx, bson.M{})
}

func (r *PostRepository) ByAuthor(ctx context.Context, username string) ([]domain.Post, error) {
	return r.find(ctx, bson.M{"username": username})
}

func (r *PostRepository) find(ctx context.Context, filter bson.M) ([]domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}

	var docs []mongoPost
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	posts := make([]domain.Post, len(docs))
	for i, d := range docs {
		posts[i] = domain.Post{
			ID:        d.ID,
			Title:     d.Title,
			Content:   d.Content,
			Username:  d.Username,
			CreatedAt: d.CreatedAt.UTC(),
		}
	}
	return posts, nil
}

// EnsureIndexes creates the per-author lookup index.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}, {Key: "_id", Value: 1}},
	})
	return err
}
