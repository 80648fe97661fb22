package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/saitej-a/Innobyte-services/internal/common"
	"github.com/saitej-a/Innobyte-services/internal/models"
	"github.com/saitej-a/Innobyte-services/internal/services"
)

type exceedAction int

const (
	exceedNone exceedAction = iota
	exceedAsk
	exceedRaise
	exceedDelete
)

// onExceed says what transact does when the budget rejects a transaction.
type onExceed struct {
	action exceedAction
	raise  decimal.Decimal
}

func parseOnExceed(s string) (onExceed, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "none":
		return onExceed{action: exceedNone}, nil
	case s == "ask":
		return onExceed{action: exceedAsk}, nil
	case s == "delete":
		return onExceed{action: exceedDelete}, nil
	case strings.HasPrefix(s, "raise:"):
		x, err := decimal.NewFromString(strings.TrimPrefix(s, "raise:"))
		if err != nil || !x.IsPositive() {
			return onExceed{}, fmt.Errorf("%w: raise amount must be a positive number", errUsage)
		}
		return onExceed{action: exceedRaise, raise: x}, nil
	}
	return onExceed{}, fmt.Errorf("%w: --on-exceed must be ask, raise:<amount>, delete or none", errUsage)
}

func (a *App) cmdTransact(ctx context.Context, userID int64, args []string) error {
	fs := flag.NewFlagSet("transact", flag.ContinueOnError)
	mode := fs.String("on-exceed", "", "ask|raise:<amount>|delete|none")
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 5 {
		return usageError("transact")
	}

	if *mode == "" {
		*mode = "none"
		if a.interactive {
			*mode = "ask"
		}
	}
	policy, err := parseOnExceed(*mode)
	if err != nil {
		return err
	}

	in, err := transactionInput(pos)
	if err != nil {
		return err
	}

	receipt, err := a.txs.Record(ctx, userID, in)

	var exceeded *common.BudgetExceededError
	if errors.As(err, &exceeded) {
		retry, rerr := a.remediate(ctx, userID, exceeded, policy)
		if rerr != nil {
			return rerr
		}
		if !retry {
			return exceeded
		}
		receipt, err = a.txs.Record(ctx, userID, in)
	}
	if err != nil {
		return err
	}

	if receipt.Decision.Bounded {
		left := receipt.Decision.Remaining.Sub(receipt.Transaction.Amount)
		a.printf("Remaining budget for %s: %s\n", receipt.Transaction.Category, left.String())
	}
	a.printf("Save this transaction ID for later use: %d\n", receipt.Transaction.ID)
	return nil
}

// remediate applies the on-exceed policy and reports whether recording
// should be attempted again.
func (a *App) remediate(ctx context.Context, userID int64, be *common.BudgetExceededError, p onExceed) (bool, error) {
	if p.action == exceedAsk {
		var err error
		if p, err = a.askRemediation(be); err != nil {
			return false, err
		}
	}

	switch p.action {
	case exceedRaise:
		b, err := a.budgets.Update(ctx, userID, be.Category, be.Remaining.Add(p.raise))
		if err != nil {
			return false, err
		}
		a.printf("Budget for %s raised to %s\n", b.Category, b.Remaining.String())
		return true, nil
	case exceedDelete:
		if err := a.budgets.Delete(ctx, userID, be.Category); err != nil {
			return false, err
		}
		a.printf("Budget for %s deleted\n", be.Category)
		return true, nil
	}
	return false, nil
}

func (a *App) askRemediation(be *common.BudgetExceededError) (onExceed, error) {
	prompt := fmt.Sprintf("Limiting budget for %s, remaining: %s. Raise it (1), delete it (2) or cancel (Enter)",
		be.Category, be.Remaining.String())
	choice, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return onExceed{}, err
	}

	switch choice {
	case "1":
		raw, err := GetSimpleText(a.reader, "Amount to add to the budget", a.out)
		if err != nil {
			return onExceed{}, err
		}
		return parseOnExceed("raise:" + raw)
	case "2":
		return onExceed{action: exceedDelete}, nil
	}
	return onExceed{action: exceedNone}, nil
}

func transactionInput(pos []string) (services.TransactionInput, error) {
	amount, err := decimal.NewFromString(pos[0])
	if err != nil {
		return services.TransactionInput{}, fmt.Errorf("%w: amount %q is not a number", common.ErrValidation, pos[0])
	}
	month, err := strconv.Atoi(pos[3])
	if err != nil {
		return services.TransactionInput{}, fmt.Errorf("%w: month %q is not a number", common.ErrValidation, pos[3])
	}
	year, err := strconv.Atoi(pos[4])
	if err != nil {
		return services.TransactionInput{}, fmt.Errorf("%w: year %q is not a number", common.ErrValidation, pos[4])
	}
	return services.TransactionInput{
		Amount:   amount,
		Type:     pos[1],
		Category: pos[2],
		Month:    month,
		Year:     year,
	}, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a transaction id", common.ErrValidation, s)
	}
	return id, nil
}

func (a *App) cmdUpdateTransaction(ctx context.Context, userID int64, args []string) error {
	if len(args) != 3 {
		return usageError("update-transaction")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	t, err := a.txs.Update(ctx, id, args[1], args[2], userID)
	if err != nil {
		return err
	}

	a.println("Updated successfully")
	a.println(formatTransaction(t))
	return nil
}

func (a *App) cmdDeleteTransaction(ctx context.Context, userID int64, args []string) error {
	if len(args) != 1 {
		return usageError("delete-transaction")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if err := a.txs.Delete(ctx, id, userID); err != nil {
		return err
	}
	a.println("Transaction successfully deleted")
	return nil
}

func (a *App) cmdShow(ctx context.Context, userID int64, args []string) error {
	if len(args) != 1 {
		return usageError("show")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	t, err := a.txs.Get(ctx, id, userID)
	if err != nil {
		return err
	}
	a.println(formatTransaction(t))
	return nil
}

func (a *App) cmdList(ctx context.Context, userID int64, args []string) error {
	f, _, err := parseFilter("list", args)
	if err != nil {
		return err
	}

	list, err := a.txs.List(ctx, userID, f)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No transactions found")
		return nil
	}
	for i := range list {
		a.println(formatTransaction(&list[i]))
	}
	return nil
}

// parseFilter reads --month/--year (and --by-category for report).
func parseFilter(cmd string, args []string) (models.Filter, bool, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	month := fs.Int("month", 0, "month 1..12")
	year := fs.Int("year", 0, "year")
	var byCategory *bool
	if cmd == "report" {
		byCategory = fs.Bool("by-category", false, "group by category")
	}

	pos, err := parseArgs(fs, args)
	if err != nil {
		return models.Filter{}, false, err
	}
	if len(pos) != 0 {
		return models.Filter{}, false, usageError(cmd)
	}

	f := models.Filter{Month: *month, Year: *year}
	return f, byCategory != nil && *byCategory, nil
}

func formatTransaction(t *models.Transaction) string {
	return fmt.Sprintf("%d | %s | %s | %s | %02d/%d",
		t.ID, t.Amount.String(), t.Type, t.Category, t.Month, t.Year)
}
