package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"myblog/app/models"
	"myblog/app/repositories"
)

// UserRepository implements repositories.UserRepository on MongoDB.
type UserRepository struct {
	users *mongo.Collection
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.BeforeCreate()
	doc := userDoc{
		ID:        primitive.NewObjectID(),
		Name:      user.Name,
		Password:  user.Password,
		Gender:    user.Gender,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt,
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicate
		}
		return err
	}
	user.ID = doc.ID.Hex()
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDoc
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.model(), nil
}
