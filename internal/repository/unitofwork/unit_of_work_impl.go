package unitofwork

import (
	"context"
	"errors"

	"ai-twin-be/internal/repository/contract"
	"ai-twin-be/internal/repository/implementation"

	"gorm.io/gorm"
)

var ErrTxActive = errors.New("analytics transaction already started")

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // nil outside Begin/Commit
}

// NewUnitOfWork binds ctx to every statement issued outside a transaction.
func NewUnitOfWork(ctx context.Context, db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{db: db.WithContext(ctx)}
}

func (u *UnitOfWorkImpl) conn() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return ErrTxActive
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

// Commit without Begin is a no-op so single-statement writes can share the
// same call sequence.
func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

// Rollback after Commit is a no-op, so callers may defer it unconditionally.
func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) AnalyticsRepository() contract.AnalyticsRepository {
	return implementation.NewAnalyticsRepository(u.conn())
}

func (u *UnitOfWorkImpl) FrequentQuestionRepository() contract.FrequentQuestionRepository {
	return implementation.NewFrequentQuestionRepository(u.conn())
}
