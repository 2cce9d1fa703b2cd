package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"myblog/app/models"
	"myblog/app/repositories"
)

// PostRepository implements repositories.PostRepository on MongoDB.
type PostRepository struct {
	posts *mongo.Collection
}

type postDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	AuthorID      primitive.ObjectID `bson:"author_id"`
	Title         string             `bson:"title"`
	Content       string             `bson:"content"`
	PV            int64              `bson:"pv"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
	Author        []userDoc          `bson:"author,omitempty"`
	CommentsCount int                `bson:"comments_count,omitempty"`
}

func (d *postDoc) model(join bool) *models.Post {
	post := &models.Post{
		ID:            d.ID.Hex(),
		AuthorID:      d.AuthorID.Hex(),
		Title:         d.Title,
		Content:       d.Content,
		PV:            d.PV,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		CommentsCount: d.CommentsCount,
	}
	if !join {
		return post.WithRawAuthor()
	}
	post.Author = profile(d.AuthorID, d.Author)
	return post
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	authorID, err := primitive.ObjectIDFromHex(post.AuthorID)
	if err != nil {
		return err
	}
	post.BeforeCreate()
	doc := postDoc{
		ID:        primitive.NewObjectID(),
		AuthorID:  authorID,
		Title:     post.Title,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	if _, err := r.posts.InsertOne(ctx, doc); err != nil {
		return err
	}
	post.ID = doc.ID.Hex()
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	posts, err := r.aggregate(ctx, bson.D{{Key: "_id", Value: oid}}, 0, 0)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, repositories.ErrNotFound
	}
	return posts[0], nil
}

func (r *PostRepository) GetRawByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc postDoc
	if err := r.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.model(false), nil
}

func (r *PostRepository) List(ctx context.Context, opts repositories.ListOptions) ([]*models.Post, error) {
	match := bson.D{}
	if opts.AuthorID != "" {
		authorID, err := primitive.ObjectIDFromHex(opts.AuthorID)
		if err != nil {
			return []*models.Post{}, nil
		}
		match = bson.D{{Key: "author_id", Value: authorID}}
	}
	return r.aggregate(ctx, match, opts.Offset, opts.Limit)
}

// aggregate runs match -> newest first -> page -> author join -> comment count.
func (r *PostRepository) aggregate(ctx context.Context, match bson.D, skip, limit int) ([]*models.Post, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
	}
	if skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: skip}})
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	pipeline = append(pipeline,
		lookupAuthor,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "comments"},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "post_id"},
			{Key: "as", Value: "comments"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "comments_count", Value: bson.D{{Key: "$size", Value: "$comments"}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{{Key: "comments", Value: 0}}}},
	)

	cursor, err := r.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []postDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	posts := make([]*models.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].model(true))
	}
	return posts, nil
}

func (r *PostRepository) Update(ctx context.Context, id, title, content string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.posts.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"title":      title,
		"content":    content,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *PostRepository) IncPV(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.posts.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"pv": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return nil
	}
	_, err = r.posts.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
