package interfaces

import (
	"context"

	"consistencychecker/internal/pkg/store/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LoanRepositoryInterface interface {
	FindPaidLoansInArrears(ctx context.Context, entityIDs []string) ([]models.Loan, error)
	FindZeroBalanceArrearLoans(ctx context.Context, entityIDs []string) ([]models.Loan, error)
	FindLoansWithPaymentDatePattern(ctx context.Context, entityIDs []string, pattern string) ([]models.Loan, error)
	FindLoansWithPaymentLinks(ctx context.Context, entityIDs []string) ([]models.Loan, error)
	GetLoanByID(ctx context.Context, loanID primitive.ObjectID) (*models.Loan, error)
	GetUnpaidLoanByID(ctx context.Context, loanID primitive.ObjectID) (*models.Loan, error)
	GetLoansByUserID(ctx context.Context, userID primitive.ObjectID) ([]models.Loan, error)
	ReplaceAmortization(ctx context.Context, loanID primitive.ObjectID, amortization []models.Installment) (*mongo.UpdateResult, error)
	ClearInstallmentArrears(ctx context.Context, loanID primitive.ObjectID, index int) (*mongo.UpdateResult, error)
	UpdateDateField(ctx context.Context, loanID primitive.ObjectID, field string, value string) (*mongo.UpdateResult, error)
}

type LoanStoreInterface interface {
	FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.Loan, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Loan, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
}
