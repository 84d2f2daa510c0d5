package reconcile

import (
	"context"
	"errors"
	"log/slog"

	"consistencychecker/internal/pkg/consts"
	"consistencychecker/internal/pkg/log_messages"
	"consistencychecker/internal/pkg/logger"
	"consistencychecker/internal/pkg/models"
	"consistencychecker/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Reasons recorded when a user status update is applied.
const (
	ReasonSoleLoanSettled = "only loan no longer in arrear"
	ReasonNoArrearLoans   = "no remaining loans in arrear"
)

// DecideUserStatus determines whether a user flagged as in arrear should be
// reactivated given the current shape of their loan portfolio. A user whose
// sole loan triggered the repair is reactivated even while that loan still
// reads as arrear; with more than one loan, any remaining arrear loan keeps
// the user as-is.
func DecideUserStatus(userStatus string, loansFound, arrearLoans int) (string, string, bool) {
	if userStatus != consts.StatusArrear {
		return userStatus, "", false
	}
	if loansFound <= 1 {
		return consts.StatusActive, ReasonSoleLoanSettled, true
	}
	if arrearLoans > 0 {
		return userStatus, "", false
	}
	return consts.StatusActive, ReasonNoArrearLoans, true
}

// DedupeObjectIDs removes duplicates preserving first-seen order.
func DedupeObjectIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	var out []primitive.ObjectID
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

type UserStatusReconciler struct {
	loanRepo interfaces.LoanRepositoryInterface
	userRepo interfaces.UserRepositoryInterface
}

func NewUserStatusReconciler(loanRepo interfaces.LoanRepositoryInterface, userRepo interfaces.UserRepositoryInterface) *UserStatusReconciler {
	return &UserStatusReconciler{loanRepo: loanRepo, userRepo: userRepo}
}

// ValidateUsers examines each user once, in first-seen order, and
// reactivates those whose portfolios no longer carry any arrear loan. A
// user that cannot be fetched is recorded and skipped; one bad document
// never aborts the pass.
func (r *UserStatusReconciler) ValidateUsers(ctx context.Context, userIDs []primitive.ObjectID) ([]models.UserValidation, []models.UserUpdate, error) {
	var validations []models.UserValidation
	var updates []models.UserUpdate

	for _, userID := range DedupeObjectIDs(userIDs) {
		validation := models.UserValidation{UserID: userID.Hex()}

		user, err := r.userRepo.GetUserByID(ctx, userID)
		if err != nil {
			if !errors.Is(err, mongo.ErrNoDocuments) {
				return nil, nil, err
			}
			validations = append(validations, validation)
			continue
		}

		validation.UserFound = true
		validation.UserStatus = user.Status

		loans, err := r.loanRepo.GetLoansByUserID(ctx, userID)
		if err != nil {
			return nil, nil, err
		}

		arrearLoans := 0
		for _, loan := range loans {
			if loan.Status == consts.StatusArrear {
				arrearLoans++
			}
		}

		validation.LoansFound = len(loans)
		validation.ArrearLoans = arrearLoans
		validation.OtherLoans = len(loans) - arrearLoans

		newStatus, reason, update := DecideUserStatus(user.Status, len(loans), arrearLoans)
		if !update {
			validations = append(validations, validation)
			continue
		}

		if _, err := r.userRepo.SetUserStatus(ctx, userID, newStatus); err != nil {
			logger.CtxError(ctx, log_messages.ErrorUpdatingUserDocument, err,
				slog.String("user_id", userID.Hex()))
			validations = append(validations, validation)
			continue
		}

		logger.CtxInfo(ctx, "Reactivated user with no remaining arrear loans",
			slog.String("user_id", userID.Hex()), slog.String("reason", reason))

		validation.StatusUpdated = true
		validation.UpdateReason = reason
		validations = append(validations, validation)
		updates = append(updates, models.UserUpdate{
			UserID:    userID.Hex(),
			OldStatus: user.Status,
			NewStatus: newStatus,
			Reason:    reason,
		})
	}

	return validations, updates, nil
}
