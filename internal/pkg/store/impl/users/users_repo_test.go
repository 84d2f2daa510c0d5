package users

import (
	"context"
	"testing"

	"consistencychecker/internal/pkg/consts"
	"consistencychecker/internal/pkg/store/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.User, error) {
	args := m.Called(ctx, filter, opt)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockRepository) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	args := m.Called(ctx, filter, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mongo.UpdateResult), args.Error(1)
}

func TestGetUserByID(t *testing.T) {
	mockRepo := new(MockRepository)
	ur := NewUserRepositoryWithInterface(mockRepo)
	ctx := context.Background()

	userID := primitive.NewObjectID()
	expected := models.User{ID: userID, Status: consts.StatusArrear}

	mockRepo.On("FindOne", ctx, bson.M{"_id": userID}, mock.Anything).Return(expected, nil)

	user, err := ur.GetUserByID(ctx, userID)

	assert.NoError(t, err)
	assert.Equal(t, consts.StatusArrear, user.Status)
	mockRepo.AssertExpectations(t)
}

func TestGetUserByIDNotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	ur := NewUserRepositoryWithInterface(mockRepo)
	ctx := context.Background()

	userID := primitive.NewObjectID()

	mockRepo.On("FindOne", ctx, bson.M{"_id": userID}, mock.Anything).
		Return(models.User{}, mongo.ErrNoDocuments)

	user, err := ur.GetUserByID(ctx, userID)

	assert.Nil(t, user)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	mockRepo.AssertExpectations(t)
}

func TestSetUserStatus(t *testing.T) {
	mockRepo := new(MockRepository)
	ur := NewUserRepositoryWithInterface(mockRepo)
	ctx := context.Background()

	userID := primitive.NewObjectID()
	result := &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}

	mockRepo.On("UpdateOne", ctx, bson.M{"_id": userID}, bson.M{"status": consts.StatusActive}).
		Return(result, nil)

	got, err := ur.SetUserStatus(ctx, userID, consts.StatusActive)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), got.ModifiedCount)
	mockRepo.AssertExpectations(t)
}
