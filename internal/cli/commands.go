package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/saitej-a/Innobyte-services/internal/common"
	"github.com/saitej-a/Innobyte-services/internal/flagx"
)

// errUsage marks malformed command lines.
var errUsage = errors.New("usage")

// handler runs a command. userID is zero for commands that do not need a
// logged-in user.
type handler func(a *App, ctx context.Context, userID int64, args []string) error

type command struct {
	name    string
	aliases []string
	usage   string
	summary string
	login   bool
	run     handler
}

var commands []command

func init() {
	commands = []command{
		{name: "register", aliases: []string{"create_user"}, usage: "register <username> [password]", summary: "create an account", run: (*App).cmdRegister},
		{name: "login", usage: "login <username> [password]", summary: "start a session", run: (*App).cmdLogin},
		{name: "logout", usage: "logout", summary: "end the session", run: (*App).cmdLogout},
		{name: "whoami", usage: "whoami", summary: "show the logged-in user", login: true, run: (*App).cmdWhoami},
		{name: "transact", usage: "transact <amount> <type> <category> <month> <year> [--on-exceed=ask|raise:<x>|delete|none]", summary: "record income or expense", login: true, run: (*App).cmdTransact},
		{name: "update-transaction", aliases: []string{"updatetr"}, usage: "update-transaction <id> <field> <value>", summary: "change amount, type, category, month or year", login: true, run: (*App).cmdUpdateTransaction},
		{name: "delete-transaction", aliases: []string{"deletetr"}, usage: "delete-transaction <id>", summary: "remove a transaction", login: true, run: (*App).cmdDeleteTransaction},
		{name: "show", usage: "show <id>", summary: "print one transaction", login: true, run: (*App).cmdShow},
		{name: "list", usage: "list [--month M] [--year Y]", summary: "list transactions", login: true, run: (*App).cmdList},
		{name: "report", aliases: []string{"finrep"}, usage: "report [--month M] [--year Y] [--by-category]", summary: "totals per type and savings", login: true, run: (*App).cmdReport},
		{name: "set-budget", aliases: []string{"setbudget"}, usage: "set-budget <amount> <category>", summary: "create or overwrite a category budget", login: true, run: (*App).cmdSetBudget},
		{name: "update-budget", usage: "update-budget <amount> <category>", summary: "overwrite an existing budget", login: true, run: (*App).cmdUpdateBudget},
		{name: "delete-budget", usage: "delete-budget <category>", summary: "remove a budget", login: true, run: (*App).cmdDeleteBudget},
		{name: "budgets", usage: "budgets", summary: "list budgets", login: true, run: (*App).cmdBudgets},
		{name: "backup", usage: "backup <dir> [--s3]", summary: "export tables to CSV, optionally upload", run: (*App).cmdBackup},
		{name: "restore", usage: "restore <dir> [--s3 <prefix>]", summary: "import tables from CSV, optionally download first", run: (*App).cmdRestore},
		{name: "shell", usage: "shell", summary: "interactive mode", run: (*App).cmdShell},
		{name: "help", usage: "help", summary: "show this text", run: (*App).cmdHelp},
	}
}

func lookupCommand(name string) (command, bool) {
	name = strings.ToLower(name)
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
		for _, alias := range c.aliases {
			if alias == name {
				return c, true
			}
		}
	}
	return command{}, false
}

// Execute runs the command named by args[0]. Outcomes are printed to the
// App's output; the error is returned unprinted.
func (a *App) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.cmdHelp(ctx, 0, nil)
	}

	cmd, ok := lookupCommand(args[0])
	if !ok {
		return fmt.Errorf("%w: unknown command %q, try help", errUsage, args[0])
	}

	var userID int64
	if cmd.login {
		id, ok := a.session.Load(ctx)
		if !ok {
			return fmt.Errorf("%w: log in to %s", common.ErrNotLoggedIn, cmd.name)
		}
		userID = id
	}

	a.log.Debug(ctx, "running command", "command", cmd.name, "user_id", userID)
	return cmd.run(a, ctx, userID, args[1:])
}

// Run executes one command and reports failures on the error output. It
// returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if err := a.Execute(ctx, args); err != nil {
		a.report(ctx, err)
		return 1
	}
	return 0
}

func (a *App) report(ctx context.Context, err error) {
	if errors.Is(err, common.ErrPersistence) {
		a.log.Error(ctx, "command failed", "error", err)
	}
	fmt.Fprintln(a.errOut, describe(err))
}

func (a *App) cmdHelp(_ context.Context, _ int64, _ []string) error {
	a.println("fintrack: budget-aware personal finance ledger")
	a.println()
	a.println("Commands:")
	for _, c := range commands {
		a.printf("  %-40s %s\n", c.usage, c.summary)
	}
	a.println()
	a.println("Global flags: -d <dsn> -driver sqlite|postgres -s <session file> -session-backend file|db")
	a.println("              -log-level <level> -log-backend slog|logrus -c <config.json>")
	return nil
}

func usageError(c string) error {
	cmd, _ := lookupCommand(c)
	return fmt.Errorf("%w: %s", errUsage, cmd.usage)
}

// parseArgs applies the flags defined on fs wherever they appear in args
// and returns the positional arguments in order. Boolean flags never
// consume the following argument.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	fs.SetOutput(io.Discard)

	var valued []string
	bools := map[string]bool{}
	fs.VisitAll(func(f *flag.Flag) {
		if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && bf.IsBoolFlag() {
			bools["-"+f.Name] = true
			return
		}
		valued = append(valued, "-"+f.Name)
	})

	flags, rest := flagx.Partition(args, valued)

	positional := make([]string, 0, len(rest))
	for _, arg := range rest {
		name, _, _ := strings.Cut(arg, "=")
		if bools["-"+strings.TrimLeft(name, "-")] && strings.HasPrefix(name, "-") {
			flags = append(flags, arg)
			continue
		}
		positional = append(positional, arg)
	}

	if err := fs.Parse(flags); err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	return positional, nil
}
