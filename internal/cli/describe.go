package cli

import (
	"errors"
	"fmt"

	"github.com/saitej-a/Innobyte-services/internal/common"
)

// describe turns an error into the single line shown to the user.
func describe(err error) string {
	var exceeded *common.BudgetExceededError

	switch {
	case errors.As(err, &exceeded):
		return fmt.Sprintf("Limiting budget for %s, remaining budget: %s. Transaction not recorded",
			exceeded.Category, exceeded.Remaining.String())
	case errors.Is(err, common.ErrNotLoggedIn):
		return err.Error()
	case errors.Is(err, common.ErrDuplicateUsername):
		return "Username already exists"
	case errors.Is(err, common.ErrUnknownUser):
		return "No such user"
	case errors.Is(err, common.ErrBadCredentials):
		return "Incorrect password"
	case errors.Is(err, common.ErrOwnershipDenied):
		return "You have no rights to update or delete this transaction"
	case errors.Is(err, common.ErrInvalidFilter):
		return "Please specify a valid period (" + err.Error() + ")"
	case errors.Is(err, common.ErrNotFound):
		return "Record not found"
	case errors.Is(err, common.ErrInvalidField), errors.Is(err, common.ErrValidation), errors.Is(err, errUsage):
		return err.Error()
	case errors.Is(err, common.ErrPersistence):
		return "Something went wrong while accessing the database"
	}
	return "Something went wrong: " + err.Error()
}
