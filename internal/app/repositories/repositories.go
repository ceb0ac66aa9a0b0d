package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx operations repositories need. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so transactional code paths can
// reuse the same query helpers.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories bundles all repository instances for dependency injection
type Repositories struct {
	UserRepository        *UserRepository
	CategoryRepository    *CategoryRepository
	ProductRepository     *ProductRepository
	OrderRepository       *OrderRepository
	ProductExamRepository *ProductExamRepository
	ExamRepository        *ExamRepository
	BookletRepository     *BookletRepository
	SessionRepository     *SessionRepository
	AccessRepository      *AccessRepository
}

// NewRepositories creates all repositories backed by the given pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(db),
		CategoryRepository:    NewCategoryRepository(db),
		ProductRepository:     NewProductRepository(db),
		OrderRepository:       NewOrderRepository(db),
		ProductExamRepository: NewProductExamRepository(db),
		ExamRepository:        NewExamRepository(db),
		BookletRepository:     NewBookletRepository(db),
		SessionRepository:     NewSessionRepository(db),
		AccessRepository:      NewAccessRepository(db),
	}
}
