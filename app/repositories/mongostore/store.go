// Package mongostore implements the repositories on MongoDB. Documents keep
// ObjectID keys; the public models carry their hex form.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"myblog/app/models"
	"myblog/app/repositories"
)

// Store holds the client and the collections used by the repositories.
type Store struct {
	client   *mongo.Client
	users    *mongo.Collection
	posts    *mongo.Collection
	comments *mongo.Collection
}

// Connect dials MongoDB, verifies the connection and ensures indexes exist.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:   client,
		users:    db.Collection("users"),
		posts:    db.Collection("posts"),
		comments: db.Collection("comments"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}
	_, err = s.posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "_id", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create posts index: %w", err)
	}
	_, err = s.comments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create comments index: %w", err)
	}
	return nil
}

// Disconnect closes the client.
func (s *Store) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Posts returns the post repository backed by this store.
func (s *Store) Posts() *PostRepository {
	return &PostRepository{posts: s.posts}
}

// Comments returns the comment repository backed by this store.
func (s *Store) Comments() *CommentRepository {
	return &CommentRepository{comments: s.comments}
}

// Users returns the user repository backed by this store.
func (s *Store) Users() *UserRepository {
	return &UserRepository{users: s.users}
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Password  string             `bson:"password"`
	Gender    string             `bson:"gender"`
	Bio       string             `bson:"bio"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *userDoc) model() *models.User {
	return &models.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Password:  d.Password,
		Gender:    d.Gender,
		Bio:       d.Bio,
		CreatedAt: d.CreatedAt,
	}
}

// profile returns the first joined author, or the bare identity when the
// author document is gone.
func profile(id primitive.ObjectID, joined []userDoc) *models.Author {
	if len(joined) == 0 {
		return &models.Author{ID: id.Hex()}
	}
	return joined[0].model().Profile()
}

// objectID parses a public id; ids that are not ObjectIDs do not exist.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repositories.ErrNotFound
	}
	return oid, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repositories.ErrNotFound
	}
	return err
}

// lookupAuthor joins users onto the author_id field as "author".
var lookupAuthor = bson.D{{Key: "$lookup", Value: bson.D{
	{Key: "from", Value: "users"},
	{Key: "localField", Value: "author_id"},
	{Key: "foreignField", Value: "_id"},
	{Key: "as", Value: "author"},
}}}

var (
	_ repositories.PostRepository    = (*PostRepository)(nil)
	_ repositories.CommentRepository = (*CommentRepository)(nil)
	_ repositories.UserRepository    = (*UserRepository)(nil)
)
