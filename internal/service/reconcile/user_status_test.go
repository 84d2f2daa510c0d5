package reconcile

import (
	"context"
	"errors"
	"testing"

	"consistencychecker/internal/pkg/consts"
	storemodels "consistencychecker/internal/pkg/store/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideUserStatus(t *testing.T) {
	tests := []struct {
		name        string
		userStatus  string
		loansFound  int
		arrearLoans int
		wantStatus  string
		wantUpdate  bool
		wantReason  string
	}{
		{"active user untouched", consts.StatusActive, 2, 0, consts.StatusActive, false, ""},
		{"arrear user with arrear loan untouched", consts.StatusArrear, 2, 1, consts.StatusArrear, false, ""},
		{"arrear user with sole settled loan reactivated", consts.StatusArrear, 1, 0, consts.StatusActive, true, ReasonSoleLoanSettled},
		{"arrear user with sole arrear loan reactivated", consts.StatusArrear, 1, 1, consts.StatusActive, true, ReasonSoleLoanSettled},
		{"arrear user with clean portfolio reactivated", consts.StatusArrear, 3, 0, consts.StatusActive, true, ReasonNoArrearLoans},
		{"arrear user with no loans reactivated", consts.StatusArrear, 0, 0, consts.StatusActive, true, ReasonSoleLoanSettled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, reason, update := DecideUserStatus(tt.userStatus, tt.loansFound, tt.arrearLoans)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantUpdate, update)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

// A user holding several loans is never reactivated while any of them stays
// in arrear.
func TestDecideUserStatusArrearLoanWinsAcrossPortfolio(t *testing.T) {
	for loans := 2; loans <= 5; loans++ {
		for arrears := 1; arrears <= loans; arrears++ {
			_, _, update := DecideUserStatus(consts.StatusArrear, loans, arrears)
			assert.False(t, update, "loans=%d arrears=%d", loans, arrears)
		}
	}
}

// The sole-loan rule wins over the arrear count: when the only loan on file
// is the one that just got repaired, its stale arrear status does not keep
// the user locked.
func TestDecideUserStatusSoleLoanBeatsArrearCount(t *testing.T) {
	status, reason, update := DecideUserStatus(consts.StatusArrear, 1, 1)

	assert.True(t, update)
	assert.Equal(t, consts.StatusActive, status)
	assert.Equal(t, ReasonSoleLoanSettled, reason)
}

func TestDedupeObjectIDsPreservesFirstSeenOrder(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	got := DedupeObjectIDs([]primitive.ObjectID{a, b, a, b, a})

	assert.Equal(t, []primitive.ObjectID{a, b}, got)
}

func TestValidateUsersReactivatesCleanUser(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	userRepo := new(MockUserRepository)
	r := NewUserStatusReconciler(loanRepo, userRepo)
	ctx := context.Background()

	userID := primitive.NewObjectID()
	user := &storemodels.User{ID: userID, Status: consts.StatusArrear}

	userRepo.On("GetUserByID", ctx, userID).Return(user, nil)
	loanRepo.On("GetLoansByUserID", ctx, userID).Return([]storemodels.Loan{
		{ID: primitive.NewObjectID(), Status: consts.StatusPaid},
	}, nil)
	userRepo.On("SetUserStatus", ctx, userID, consts.StatusActive).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	validations, updates, err := r.ValidateUsers(ctx, []primitive.ObjectID{userID, userID})

	assert.NoError(t, err)
	assert.Len(t, validations, 1, "duplicate ids are examined once")
	assert.True(t, validations[0].StatusUpdated)
	assert.Equal(t, ReasonSoleLoanSettled, validations[0].UpdateReason)

	assert.Len(t, updates, 1)
	assert.Equal(t, consts.StatusArrear, updates[0].OldStatus)
	assert.Equal(t, consts.StatusActive, updates[0].NewStatus)

	userRepo.AssertExpectations(t)
	loanRepo.AssertExpectations(t)
}

func TestValidateUsersKeepsUserWithArrearLoan(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	userRepo := new(MockUserRepository)
	r := NewUserStatusReconciler(loanRepo, userRepo)
	ctx := context.Background()

	userID := primitive.NewObjectID()
	user := &storemodels.User{ID: userID, Status: consts.StatusArrear}

	userRepo.On("GetUserByID", ctx, userID).Return(user, nil)
	loanRepo.On("GetLoansByUserID", ctx, userID).Return([]storemodels.Loan{
		{ID: primitive.NewObjectID(), Status: consts.StatusPaid},
		{ID: primitive.NewObjectID(), Status: consts.StatusArrear},
	}, nil)

	validations, updates, err := r.ValidateUsers(ctx, []primitive.ObjectID{userID})

	assert.NoError(t, err)
	assert.Len(t, validations, 1)
	assert.False(t, validations[0].StatusUpdated)
	assert.Equal(t, 1, validations[0].ArrearLoans)
	assert.Empty(t, updates)

	userRepo.AssertNotCalled(t, "SetUserStatus")
}

func TestValidateUsersReactivatesSoleArrearLoanUser(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	userRepo := new(MockUserRepository)
	r := NewUserStatusReconciler(loanRepo, userRepo)
	ctx := context.Background()

	userID := primitive.NewObjectID()

	userRepo.On("GetUserByID", ctx, userID).
		Return(&storemodels.User{ID: userID, Status: consts.StatusArrear}, nil)
	loanRepo.On("GetLoansByUserID", ctx, userID).Return([]storemodels.Loan{
		{ID: primitive.NewObjectID(), Status: consts.StatusArrear},
	}, nil)
	userRepo.On("SetUserStatus", ctx, userID, consts.StatusActive).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	validations, updates, err := r.ValidateUsers(ctx, []primitive.ObjectID{userID})

	assert.NoError(t, err)
	require.Len(t, validations, 1)
	assert.True(t, validations[0].StatusUpdated)
	assert.Equal(t, ReasonSoleLoanSettled, validations[0].UpdateReason)
	assert.Len(t, updates, 1)

	userRepo.AssertExpectations(t)
}

func TestValidateUsersContinuesPastFailedStatusUpdate(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	userRepo := new(MockUserRepository)
	r := NewUserStatusReconciler(loanRepo, userRepo)
	ctx := context.Background()

	brokenID := primitive.NewObjectID()
	cleanID := primitive.NewObjectID()

	for _, id := range []primitive.ObjectID{brokenID, cleanID} {
		userRepo.On("GetUserByID", ctx, id).
			Return(&storemodels.User{ID: id, Status: consts.StatusArrear}, nil)
		loanRepo.On("GetLoansByUserID", ctx, id).Return([]storemodels.Loan{
			{ID: primitive.NewObjectID(), Status: consts.StatusPaid},
		}, nil)
	}
	userRepo.On("SetUserStatus", ctx, brokenID, consts.StatusActive).
		Return(nil, errors.New("write concern timeout"))
	userRepo.On("SetUserStatus", ctx, cleanID, consts.StatusActive).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	validations, updates, err := r.ValidateUsers(ctx, []primitive.ObjectID{brokenID, cleanID})

	assert.NoError(t, err)
	require.Len(t, validations, 2)
	assert.False(t, validations[0].StatusUpdated)
	assert.True(t, validations[1].StatusUpdated)

	require.Len(t, updates, 1)
	assert.Equal(t, cleanID.Hex(), updates[0].UserID)

	userRepo.AssertExpectations(t)
}

func TestValidateUsersRecordsMissingUser(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	userRepo := new(MockUserRepository)
	r := NewUserStatusReconciler(loanRepo, userRepo)
	ctx := context.Background()

	userID := primitive.NewObjectID()

	userRepo.On("GetUserByID", ctx, userID).Return(nil, mongo.ErrNoDocuments)

	validations, updates, err := r.ValidateUsers(ctx, []primitive.ObjectID{userID})

	assert.NoError(t, err)
	assert.Len(t, validations, 1)
	assert.False(t, validations[0].UserFound)
	assert.Empty(t, updates)

	loanRepo.AssertNotCalled(t, "GetLoansByUserID")
}
