package interfaces

import (
	"context"

	"consistencychecker/internal/pkg/store/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepositoryInterface interface {
	GetUserByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	SetUserStatus(ctx context.Context, userID primitive.ObjectID, status string) (*mongo.UpdateResult, error)
}

type UserStoreInterface interface {
	FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.User, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
}
