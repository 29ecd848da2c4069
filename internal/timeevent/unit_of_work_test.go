package timeevent

import (
	"context"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitOfWork_RollbackRunsCompensationsInReverseOrder(t *testing.T) {
	u := newUnitOfWork(log.Default())
	var order []int
	u.Stage(func(ctx context.Context) error { order = append(order, 1); return nil })
	u.Stage(func(ctx context.Context) error { order = append(order, 2); return nil })

	u.Rollback(context.Background())

	assert.Equal(t, []int{2, 1}, order)
}

func TestUnitOfWork_DoneMakesRollbackANoOp(t *testing.T) {
	u := newUnitOfWork(log.Default())
	ran := false
	u.Stage(func(ctx context.Context) error { ran = true; return nil })

	u.Done()
	u.Rollback(context.Background())

	assert.False(t, ran)
}

func TestUnitOfWork_RollbackContinuesPastACompensationError(t *testing.T) {
	u := newUnitOfWork(log.Default())
	second := false
	u.Stage(func(ctx context.Context) error { second = true; return nil })
	u.Stage(func(ctx context.Context) error { return assertError })

	u.Rollback(context.Background())

	assert.True(t, second)
}

var assertError = context.DeadlineExceeded
