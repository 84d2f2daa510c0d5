package payments

import (
	"context"
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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PaymentRepository struct {
	repo interfaces.PaymentStoreInterface
}

func NewPaymentsRepository(client *mongodb.MongoClient) *PaymentRepository {
	collection := client.Database.Collection(consts.PaymentCollection)
	repo := repository.NewMongoRepository[models.Payment](collection)
	return &PaymentRepository{repo: repo}
}

func NewPaymentRepositoryWithInterface(repo interfaces.PaymentStoreInterface) *PaymentRepository {
	return &PaymentRepository{repo: repo}
}

// FindPaymentsBetween returns payments scoped to the given entities whose
// date falls in [from, to). A limit of zero means no cap.
func (pr *PaymentRepository) FindPaymentsBetween(ctx context.Context, from, to string, entityIDs []string, limit int64) ([]models.Payment, error) {
	filter := bson.M{
		"date":                bson.M{"$gte": from, "$lt": to},
		"financial_entity_id": bson.M{"$in": entityIDs},
	}

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}

	payments, err := pr.repo.Find(ctx, filter, opts)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorFetchingPaymentsMongoDBDoc, err,
			slog.String("from", from), slog.String("to", to))
		return nil, err
	}

	logger.CtxDebug(ctx, "Fetched payments in window",
		slog.String("from", from), slog.String("to", to), slog.Int("count", len(payments)))
	return payments, nil
}

// FindPaymentsSince returns payments dated on or after the given date,
// across every financial entity.
func (pr *PaymentRepository) FindPaymentsSince(ctx context.Context, date string, limit int64) ([]models.Payment, error) {
	filter := bson.M{
		"date": bson.M{"$gte": date},
	}

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}

	payments, err := pr.repo.Find(ctx, filter, opts)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorFetchingPaymentsMongoDBDoc, err, slog.String("since", date))
		return nil, err
	}

	return payments, nil
}

// HasTransaction reports whether any payment of the loan carries the given
// transaction identifier.
func (pr *PaymentRepository) HasTransaction(ctx context.Context, loanID primitive.ObjectID, transactionID string) (bool, error) {
	filter := bson.M{
		"loan_id":         loanID,
		"transactions.id": transactionID,
	}

	count, err := pr.repo.CountDocuments(ctx, filter)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorFetchingPaymentsMongoDBDoc, err,
			slog.String("loan_id", loanID.Hex()), slog.String("transaction_id", transactionID))
		return false, err
	}

	return count > 0, nil
}
