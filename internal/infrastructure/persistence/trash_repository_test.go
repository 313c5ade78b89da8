package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawnshop/backend/internal/domain/partner"
	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/pawnshop/backend/internal/domain/trash"
)

func TestGormTrashRepository(t *testing.T) {
	repo := NewGormTrashRepository(setupTestDB(t))
	ctx := context.Background()

	customer, err := partner.NewCustomer("CUST-00001", "Meena Devi", "9123456780", "12 Temple St", "", "")
	require.NoError(t, err)

	item, err := trash.NewItem(trash.ItemTypeCustomer, customer.ID, customer.CustomerRef, customer.FullName, customer, "admin", time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, item))

	t.Run("payload survives the round trip", func(t *testing.T) {
		found, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, trash.ItemTypeCustomer, found.ItemType)
		assert.Equal(t, "CUST-00001", found.Reference)

		var restored partner.Customer
		require.NoError(t, found.Decode(&restored))
		assert.Equal(t, customer.FullName, restored.FullName)
		assert.Equal(t, customer.Phone, restored.Phone)
	})

	t.Run("filter by item type", func(t *testing.T) {
		loanType := trash.ItemTypeLoan
		items, err := repo.FindAll(ctx, &loanType)
		require.NoError(t, err)
		assert.Empty(t, items)

		customerType := trash.ItemTypeCustomer
		items, err = repo.FindAll(ctx, &customerType)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("audit log round trip", func(t *testing.T) {
		entry := trash.NewLogEntry(trash.LogActionRestore, trash.ItemTypeCustomer, customer.ID, customer.CustomerRef, "restored from trash", "admin", time.Now())
		require.NoError(t, repo.AppendLog(ctx, entry))

		logs, err := repo.FindLogs(ctx, 10)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, trash.LogActionRestore, logs[0].Action)
	})

	t.Run("empty the bin", func(t *testing.T) {
		count, err := repo.DeleteAll(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		_, err = repo.FindByID(ctx, item.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("delete missing item", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
	})
}
