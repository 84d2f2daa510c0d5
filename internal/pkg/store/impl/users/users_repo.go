package users

import (
	"context"
	"errors"
	"log/slog"

	"consistencychecker/internal/pkg/consts"
	mongodb "consistencychecker/internal/pkg/db/mongo"
	"consistencychecker/internal/pkg/log_messages"
	"consistencychecker/internal/pkg/logger"
	"consistencychecker/internal/pkg/store/models"
	"consistencychecker/internal/pkg/store/repository"
	"consistencychecker/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	repo interfaces.UserStoreInterface
}

func NewUsersRepository(client *mongodb.MongoClient) *UserRepository {
	collection := client.Database.Collection(consts.UserCollection)
	repo := repository.NewMongoRepository[models.User](collection)
	return &UserRepository{repo: repo}
}

func NewUserRepositoryWithInterface(repo interfaces.UserStoreInterface) *UserRepository {
	return &UserRepository{repo: repo}
}

func (ur *UserRepository) GetUserByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	filter := bson.M{"_id": userID}
	user, err := ur.repo.FindOne(ctx, filter, options.FindOne())

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.CtxWarn(ctx, log_messages.EmptyDocumentFoundFromDb, slog.String("user_id", userID.Hex()))
			return nil, err
		}
		logger.CtxError(ctx, log_messages.ErrorFetchingUsersMongoDBDoc, err, slog.String("user_id", userID.Hex()))
		return nil, err
	}

	return &user, nil
}

func (ur *UserRepository) SetUserStatus(ctx context.Context, userID primitive.ObjectID, status string) (*mongo.UpdateResult, error) {
	filter := bson.M{"_id": userID}
	update := bson.M{"status": status}

	result, err := ur.repo.UpdateOne(ctx, filter, update)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorUpdatingUserDocument, err,
			slog.String("user_id", userID.Hex()), slog.String("status", status))
		return nil, err
	}

	return result, nil
}
