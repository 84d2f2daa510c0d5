package loans

import (
	"context"
	"errors"
	"fmt"
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

type LoanRepository struct {
	repo interfaces.LoanStoreInterface
}

func NewLoansRepository(client *mongodb.MongoClient) *LoanRepository {
	collection := client.Database.Collection(consts.LoanCollection)
	repo := repository.NewMongoRepository[models.Loan](collection)
	return &LoanRepository{repo: repo}
}

func NewLoanRepositoryWithInterface(repo interfaces.LoanStoreInterface) *LoanRepository {
	return &LoanRepository{repo: repo}
}

// FindPaidLoansInArrears returns paid loans scoped to the given entities
// whose amortization still carries a positive days_in_arrear.
func (lr *LoanRepository) FindPaidLoansInArrears(ctx context.Context, entityIDs []string) ([]models.Loan, error) {
	filter := bson.M{
		"status":              consts.StatusPaid,
		"financial_entity_id": bson.M{"$in": entityIDs},
		"amortization": bson.M{
			"$elemMatch": bson.M{"days_in_arrear": bson.M{"$gt": 0}},
		},
	}

	loans, err := lr.repo.Find(ctx, filter)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorFetchingLoansMongoDBDoc, err)
		return nil, err
	}

	logger.CtxDebug(ctx, "Fetched paid loans with arrear residue", slog.Int("count", len(loans)))
	return loans, nil
}

// FindZeroBalanceArrearLoans returns loans with at least one installment
// that owes nothing but still reports days in arrear.
func (lr *LoanRepository) FindZeroBalanceArrearLoans(ctx context.Context, entityIDs []string) ([]models.Loan, error) {
	filter := bson.M{
		"financial_entity_id": bson.M{"$in": entityIDs},
		"amortization": bson.M{
			"$elemMatch": bson.M{
				"days_in_arrear":  bson.M{"$gt": 0},
				"pending_payment": 0,
			},
		},
	}

	loans, err := lr.repo.Find(ctx, filter)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorFetchingLoansMongoDBDoc, err)
		return nil, err
	}

	logger.CtxDebug(ctx, "Fetched zero balance arrear loans", slog.Int("count", len(loans)))
	return loans, nil
}

// FindLoansWithPaymentDatePattern returns loans whose payment_date matches
// the given regular expression. Selection reads payment_date alone; the
// caller still normalizes limit_payment_date on whatever comes back.
func (lr *LoanRepository) FindLoansWithPaymentDatePattern(ctx context.Context, entityIDs []string, pattern string) ([]models.Loan, error) {
	filter := bson.M{
		"financial_entity_id": bson.M{"$in": entityIDs},
		"payment_date":        primitive.Regex{Pattern: pattern},
	}

	loans, err := lr.repo.Find(ctx, filter)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorFetchingLoansMongoDBDoc, err)
		return nil, err
	}

	return loans, nil
}

// FindLoansWithPaymentLinks returns loans with at least one installment
// carrying a non-empty payment_info array.
func (lr *LoanRepository) FindLoansWithPaymentLinks(ctx context.Context, entityIDs []string) ([]models.Loan, error) {
	filter := bson.M{
		"financial_entity_id":         bson.M{"$in": entityIDs},
		"amortization.payment_info.0": bson.M{"$exists": true},
	}

	loans, err := lr.repo.Find(ctx, filter)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorFetchingLoansMongoDBDoc, err)
		return nil, err
	}

	return loans, nil
}

func (lr *LoanRepository) GetLoanByID(ctx context.Context, loanID primitive.ObjectID) (*models.Loan, error) {
	filter := bson.M{"_id": loanID}
	loan, err := lr.repo.FindOne(ctx, filter, options.FindOne())

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.CtxWarn(ctx, log_messages.EmptyDocumentFoundFromDb, slog.String("loan_id", loanID.Hex()))
			return nil, err
		}
		logger.CtxError(ctx, log_messages.ErrorFetchingLoansMongoDBDoc, err, slog.String("loan_id", loanID.Hex()))
		return nil, err
	}

	return &loan, nil
}

// GetUnpaidLoanByID returns the loan only when its status is not paid.
func (lr *LoanRepository) GetUnpaidLoanByID(ctx context.Context, loanID primitive.ObjectID) (*models.Loan, error) {
	filter := bson.M{
		"_id":    loanID,
		"status": bson.M{"$ne": consts.StatusPaid},
	}
	loan, err := lr.repo.FindOne(ctx, filter, options.FindOne())

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		logger.CtxError(ctx, log_messages.ErrorFetchingLoansMongoDBDoc, err, slog.String("loan_id", loanID.Hex()))
		return nil, err
	}

	return &loan, nil
}

func (lr *LoanRepository) GetLoansByUserID(ctx context.Context, userID primitive.ObjectID) ([]models.Loan, error) {
	filter := bson.M{"user_id": userID}

	loans, err := lr.repo.Find(ctx, filter)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorFetchingLoansMongoDBDoc, err, slog.String("user_id", userID.Hex()))
		return nil, err
	}

	return loans, nil
}

// ReplaceAmortization writes the whole amortization table back. Installments
// are raw documents so untouched fields keep their stored BSON types.
func (lr *LoanRepository) ReplaceAmortization(ctx context.Context, loanID primitive.ObjectID, amortization []models.Installment) (*mongo.UpdateResult, error) {
	filter := bson.M{"_id": loanID}
	update := bson.M{"amortization": amortization}

	result, err := lr.repo.UpdateOne(ctx, filter, update)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorUpdatingLoanDocument, err, slog.String("loan_id", loanID.Hex()))
		return nil, err
	}

	return result, nil
}

// ClearInstallmentArrears zeroes days_in_arrear for a single installment,
// addressed positionally so no other field is rewritten.
func (lr *LoanRepository) ClearInstallmentArrears(ctx context.Context, loanID primitive.ObjectID, index int) (*mongo.UpdateResult, error) {
	filter := bson.M{"_id": loanID}
	update := bson.M{
		fmt.Sprintf("amortization.%d.days_in_arrear", index): int32(0),
	}

	result, err := lr.repo.UpdateOne(ctx, filter, update)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorUpdatingLoanDocument, err,
			slog.String("loan_id", loanID.Hex()), slog.Int("index", index))
		return nil, err
	}

	return result, nil
}

func (lr *LoanRepository) UpdateDateField(ctx context.Context, loanID primitive.ObjectID, field string, value string) (*mongo.UpdateResult, error) {
	filter := bson.M{"_id": loanID}
	update := bson.M{field: value}

	result, err := lr.repo.UpdateOne(ctx, filter, update)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorUpdatingLoanDocument, err,
			slog.String("loan_id", loanID.Hex()), slog.String("field", field))
		return nil, err
	}

	return result, nil
}
