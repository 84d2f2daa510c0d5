package reconcile

import (
	"context"

	"consistencychecker/internal/pkg/models"
	storemodels "consistencychecker/internal/pkg/store/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/stretchr/testify/mock"
)

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) FindPaidLoansInArrears(ctx context.Context, entityIDs []string) ([]storemodels.Loan, error) {
	args := m.Called(ctx, entityIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storemodels.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindZeroBalanceArrearLoans(ctx context.Context, entityIDs []string) ([]storemodels.Loan, error) {
	args := m.Called(ctx, entityIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storemodels.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindLoansWithPaymentDatePattern(ctx context.Context, entityIDs []string, pattern string) ([]storemodels.Loan, error) {
	args := m.Called(ctx, entityIDs, pattern)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storemodels.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindLoansWithPaymentLinks(ctx context.Context, entityIDs []string) ([]storemodels.Loan, error) {
	args := m.Called(ctx, entityIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storemodels.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetLoanByID(ctx context.Context, loanID primitive.ObjectID) (*storemodels.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storemodels.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetUnpaidLoanByID(ctx context.Context, loanID primitive.ObjectID) (*storemodels.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storemodels.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetLoansByUserID(ctx context.Context, userID primitive.ObjectID) ([]storemodels.Loan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storemodels.Loan), args.Error(1)
}

func (m *MockLoanRepository) ReplaceAmortization(ctx context.Context, loanID primitive.ObjectID, amortization []storemodels.Installment) (*mongo.UpdateResult, error) {
	args := m.Called(ctx, loanID, amortization)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mongo.UpdateResult), args.Error(1)
}

func (m *MockLoanRepository) ClearInstallmentArrears(ctx context.Context, loanID primitive.ObjectID, index int) (*mongo.UpdateResult, error) {
	args := m.Called(ctx, loanID, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mongo.UpdateResult), args.Error(1)
}

func (m *MockLoanRepository) UpdateDateField(ctx context.Context, loanID primitive.ObjectID, field string, value string) (*mongo.UpdateResult, error) {
	args := m.Called(ctx, loanID, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mongo.UpdateResult), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID primitive.ObjectID) (*storemodels.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storemodels.User), args.Error(1)
}

func (m *MockUserRepository) SetUserStatus(ctx context.Context, userID primitive.ObjectID, status string) (*mongo.UpdateResult, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mongo.UpdateResult), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindPaymentsBetween(ctx context.Context, from, to string, entityIDs []string, limit int64) ([]storemodels.Payment, error) {
	args := m.Called(ctx, from, to, entityIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storemodels.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentsSince(ctx context.Context, date string, limit int64) ([]storemodels.Payment, error) {
	args := m.Called(ctx, date, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storemodels.Payment), args.Error(1)
}

func (m *MockPaymentRepository) HasTransaction(ctx context.Context, loanID primitive.ObjectID, transactionID string) (bool, error) {
	args := m.Called(ctx, loanID, transactionID)
	return args.Bool(0), args.Error(1)
}

type MockBackupWriter struct {
	mock.Mock
}

func (m *MockBackupWriter) WriteJSON(name string, v interface{}) (string, error) {
	args := m.Called(name, v)
	return args.String(0), args.Error(1)
}

func (m *MockBackupWriter) WriteFindingsCSV(name string, findings []models.UnappliedFinding) (string, error) {
	args := m.Called(name, findings)
	return args.String(0), args.Error(1)
}

func (m *MockBackupWriter) WriteLoanIDList(name string, title string, loanIDs []string) (string, error) {
	args := m.Called(name, title, loanIDs)
	return args.String(0), args.Error(1)
}

func (m *MockBackupWriter) Timestamp() string {
	args := m.Called()
	return args.String(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockNotifier) Send(ctx context.Context, subject string, html string) error {
	args := m.Called(ctx, subject, html)
	return args.Error(0)
}
