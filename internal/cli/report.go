package cli

import (
	"context"
)

func (a *App) cmdReport(ctx context.Context, userID int64, args []string) error {
	f, byCategory, err := parseFilter("report", args)
	if err != nil {
		return err
	}

	if byCategory {
		totals, err := a.reports.ByCategory(ctx, userID, f)
		if err != nil {
			return err
		}
		for _, t := range totals {
			a.printf("%s %s : %s\n", t.Type, t.Category, t.Total.String())
		}
	}

	r, err := a.reports.Summarize(ctx, userID, f)
	if err != nil {
		return err
	}
	for _, t := range r.Totals {
		a.printf("%s : %s\n", t.Type, t.Total.String())
	}
	a.printf("savings : %s\n", r.Savings().String())
	return nil
}
