package cli

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/saitej-a/Innobyte-services/internal/common"
)

func budgetArgs(cmd string, args []string) (decimal.Decimal, string, error) {
	if len(args) != 2 {
		return decimal.Decimal{}, "", usageError(cmd)
	}
	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		return decimal.Decimal{}, "", fmt.Errorf("%w: amount %q is not a number", common.ErrValidation, args[0])
	}
	return amount, args[1], nil
}

func (a *App) cmdSetBudget(ctx context.Context, userID int64, args []string) error {
	amount, category, err := budgetArgs("set-budget", args)
	if err != nil {
		return err
	}

	b, err := a.budgets.SetOrUpdate(ctx, userID, category, amount)
	if err != nil {
		return err
	}
	a.printf("Budget record ID: %d\n", b.ID)
	return nil
}

func (a *App) cmdUpdateBudget(ctx context.Context, userID int64, args []string) error {
	amount, category, err := budgetArgs("update-budget", args)
	if err != nil {
		return err
	}

	b, err := a.budgets.Update(ctx, userID, category, amount)
	if err != nil {
		return err
	}
	a.printf("Budget for %s updated: %s\n", b.Category, b.Remaining.String())
	return nil
}

func (a *App) cmdDeleteBudget(ctx context.Context, userID int64, args []string) error {
	if len(args) != 1 {
		return usageError("delete-budget")
	}
	if err := a.budgets.Delete(ctx, userID, args[0]); err != nil {
		return err
	}
	a.println("Budget deleted")
	return nil
}

func (a *App) cmdBudgets(ctx context.Context, userID int64, _ []string) error {
	list, err := a.budgets.List(ctx, userID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No budgets set")
		return nil
	}
	for _, b := range list {
		a.printf("%s : %s\n", b.Category, b.Remaining.String())
	}
	return nil
}
