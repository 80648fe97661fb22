package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

func (a *App) cmdShell(ctx context.Context, _ int64, _ []string) error {
	a.println("Welcome to fintrack (type 'help' for commands, 'exit' to leave)")
	runREPL(ctx, a, a.status, a.reader)
	return nil
}

// status is shown in the prompt: the logged-in username, if any.
func (a *App) status(ctx context.Context) string {
	id, ok := a.session.Load(ctx)
	if !ok {
		return ""
	}
	u, err := a.users.GetUser(ctx, id)
	if err != nil {
		return ""
	}
	return u.UserName
}

// executor is the command surface the REPL drives. *App satisfies it;
// tests use a stub.
type executor interface {
	Execute(ctx context.Context, args []string) error
	report(ctx context.Context, err error)
	println(args ...any)
}

// runREPL reads one command per line and dispatches it until EOF or
// "exit"/"quit". A failing command is reported and the loop continues.
// Commands that prompt read their answers from the same reader.
func runREPL(ctx context.Context, a executor, statusFn func(context.Context) string, reader *bufio.Reader) {
	for {
		prompt := "fintrack> "
		if s := statusFn(ctx); s != "" {
			prompt = fmt.Sprintf("fintrack (%s)> ", s)
		}
		a.println(prompt)

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		eof := err != nil

		parts := strings.Fields(line)
		if len(parts) == 0 {
			if eof {
				return
			}
			continue
		}

		switch strings.ToLower(parts[0]) {
		case "exit", "quit":
			a.println("Bye!")
			return
		case "shell":
			a.println("Already in the shell")
			continue
		}

		if err := a.Execute(ctx, parts); err != nil {
			a.report(ctx, err)
		}
		if eof {
			return
		}
	}
}
