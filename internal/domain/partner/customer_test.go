package partner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	t.Run("creates active customer", func(t *testing.T) {
		c, err := NewCustomer("CUST-001", "Ravi Kumar", "9876543210", "12 Temple St", "AADH-1234", "")
		require.NoError(t, err)
		assert.True(t, c.Active)
		assert.Equal(t, "CUST-001", c.CustomerRef)
	})

	t.Run("requires ref, name, phone and address", func(t *testing.T) {
		cases := []struct {
			name                      string
			ref, full, phone, address string
		}{
			{"missing ref", "", "Ravi", "99", "addr"},
			{"missing name", "CUST-001", "", "99", "addr"},
			{"missing phone", "CUST-001", "Ravi", "", "addr"},
			{"missing address", "CUST-001", "Ravi", "99", ""},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewCustomer(tc.ref, tc.full, tc.phone, tc.address, "", "")
				require.Error(t, err)
			})
		}
	})
}

func TestCustomerActivation(t *testing.T) {
	now := time.Now()
	c, err := NewCustomer("CUST-001", "Ravi Kumar", "9876543210", "12 Temple St", "", "")
	require.NoError(t, err)

	require.Error(t, c.Activate(now), "already active")
	require.NoError(t, c.Deactivate(now))
	assert.False(t, c.Active)
	require.Error(t, c.Deactivate(now), "already inactive")
	require.NoError(t, c.Activate(now))
	assert.True(t, c.Active)
}

func TestCustomerUpdate(t *testing.T) {
	now := time.Now()
	c, err := NewCustomer("CUST-001", "Ravi Kumar", "9876543210", "12 Temple St", "", "")
	require.NoError(t, err)

	require.NoError(t, c.Update("Ravi K", "9000000000", "14 Temple St", "PAN-99", "photo-1", now))
	assert.Equal(t, "Ravi K", c.FullName)
	assert.Equal(t, "9000000000", c.Phone)
	assert.Equal(t, 2, c.Version)

	require.Error(t, c.Update("", "9000000000", "14 Temple St", "", "", now))
}
