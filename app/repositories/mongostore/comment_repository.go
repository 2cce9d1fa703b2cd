package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"myblog/app/models"
)

// CommentRepository implements repositories.CommentRepository on MongoDB.
type CommentRepository struct {
	comments *mongo.Collection
}

type commentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	PostID    primitive.ObjectID `bson:"post_id"`
	AuthorID  primitive.ObjectID `bson:"author_id"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"created_at"`
	Author    []userDoc          `bson:"author,omitempty"`
}

func (d *commentDoc) model(join bool) *models.Comment {
	comment := &models.Comment{
		ID:        d.ID.Hex(),
		PostID:    d.PostID.Hex(),
		AuthorID:  d.AuthorID.Hex(),
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		Author:    &models.Author{ID: d.AuthorID.Hex()},
	}
	if join {
		comment.Author = profile(d.AuthorID, d.Author)
	}
	return comment
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	postID, err := objectID(comment.PostID)
	if err != nil {
		return err
	}
	authorID, err := primitive.ObjectIDFromHex(comment.AuthorID)
	if err != nil {
		return err
	}
	comment.BeforeCreate()
	doc := commentDoc{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
	if _, err := r.comments.InsertOne(ctx, doc); err != nil {
		return err
	}
	comment.ID = doc.ID.Hex()
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc commentDoc
	if err := r.comments.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.model(false), nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	oid, err := objectID(postID)
	if err != nil {
		return []*models.Comment{}, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "post_id", Value: oid}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		lookupAuthor,
	}
	cursor, err := r.comments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []commentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	comments := make([]*models.Comment, 0, len(docs))
	for i := range docs {
		comments = append(comments, docs[i].model(true))
	}
	return comments, nil
}

func (r *CommentRepository) CountByPost(ctx context.Context, postID string) (int, error) {
	oid, err := objectID(postID)
	if err != nil {
		return 0, nil
	}
	n, err := r.comments.CountDocuments(ctx, bson.M{"post_id": oid})
	return int(n), err
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return nil
	}
	_, err = r.comments.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (r *CommentRepository) DeleteByPost(ctx context.Context, postID string) error {
	oid, err := objectID(postID)
	if err != nil {
		return nil
	}
	_, err = r.comments.DeleteMany(ctx, bson.M{"post_id": oid})
	return err
}
