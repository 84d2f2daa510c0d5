package interfaces

import (
	"context"

	"consistencychecker/internal/pkg/store/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PaymentRepositoryInterface interface {
	FindPaymentsBetween(ctx context.Context, from, to string, entityIDs []string, limit int64) ([]models.Payment, error)
	FindPaymentsSince(ctx context.Context, date string, limit int64) ([]models.Payment, error)
	HasTransaction(ctx context.Context, loanID primitive.ObjectID, transactionID string) (bool, error)
}

type PaymentStoreInterface interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Payment, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}
