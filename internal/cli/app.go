package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/saitej-a/Innobyte-services/internal/backup"
	"github.com/saitej-a/Innobyte-services/internal/config"
	"github.com/saitej-a/Innobyte-services/internal/cryptox"
	"github.com/saitej-a/Innobyte-services/internal/logging"
	"github.com/saitej-a/Innobyte-services/internal/repositories/repomanager"
	"github.com/saitej-a/Innobyte-services/internal/services"
	"github.com/saitej-a/Innobyte-services/internal/session"
	"github.com/saitej-a/Innobyte-services/internal/storage"
)

// Remote copies backup directories to and from object storage.
type Remote interface {
	Push(ctx context.Context, dir string) (string, error)
	Pull(ctx context.Context, prefix, dir string) ([]string, error)
}

type App struct {
	config *config.Config
	db     *sql.DB
	log    logging.Logger

	session  session.Store
	users    *services.UserService
	budgets  *services.BudgetService
	txs      *services.TransactionService
	reports  *services.ReportService
	backups  *backup.Service
	remoteFn func(ctx context.Context) (Remote, error)

	reader      *bufio.Reader
	out         io.Writer
	errOut      io.Writer
	interactive bool
}

// NewApp opens the database described by c and wires the services on top
// of it. The caller must Close the App.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, c.Dialect(), c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	rm := repomanager.NewSQLRepositoryManager(c.Dialect())
	budgets := services.NewBudgetService(db, rm, log)

	a := &App{
		config:      c,
		db:          db,
		log:         log,
		users:       services.NewUserService(db, rm, cryptox.NewBcryptHasher(c.BcryptCost), log),
		budgets:     budgets,
		txs:         services.NewTransactionService(db, rm, budgets, log),
		reports:     services.NewReportService(db, rm, log),
		backups:     backup.NewService(db, c.Dialect(), log),
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		errOut:      os.Stderr,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
	a.remoteFn = a.s3Remote

	switch c.SessionBackend {
	case "db":
		a.session = session.NewMetadataStore(db, rm)
	default:
		a.session = session.NewFileStore(c.SessionFile)
	}

	return a, nil
}

// Close releases the database connection.
func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) s3Remote(ctx context.Context) (Remote, error) {
	if !a.config.S3.Enabled() {
		return nil, fmt.Errorf("%w: no S3 bucket configured (set -s3-bucket or FINTRACK_S3_BUCKET)", errUsage)
	}
	client, err := backup.NewS3Client(ctx, a.config.S3)
	if err != nil {
		return nil, err
	}
	return backup.NewS3Remote(client, a.config.S3.Bucket, a.log), nil
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
