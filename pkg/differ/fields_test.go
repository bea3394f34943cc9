package differ

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m365ops/contactsync/pkg/contacts"
	"github.com/m365ops/contactsync/pkg/errors"
)

func TestValidateFields(t *testing.T) {
	t.Run("missing mapping", func(t *testing.T) {
		table := append([]field{}, fieldMap[:len(fieldMap)-1]...)
		err := validateFields(table)
		require.Error(t, err)
		var cfgErr *errors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, err.Error(), contacts.FieldIMAddresses)
	})

	t.Run("duplicate mapping", func(t *testing.T) {
		table := append([]field{}, fieldMap...)
		table = append(table, fieldMap[0])
		err := validateFields(table)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mapped 2 times")
	})

	t.Run("unknown mapping", func(t *testing.T) {
		extra := fieldMap[0]
		extra.name = "nickName"
		table := append(append([]field{}, fieldMap...), extra)
		err := validateFields(table)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nickName")
	})

	t.Run("incomplete mapping", func(t *testing.T) {
		table := append([]field{}, fieldMap...)
		table[0].copy = nil
		err := validateFields(table)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "incompletely mapped")
	})
}

func TestIsBlank(t *testing.T) {
	assert.True(t, isBlank(""))
	assert.True(t, isBlank(listSeparator+listSeparator))
	assert.False(t, isBlank("a"+listSeparator))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "abcdefg...", truncateString("abcdefghijklmnop", 10))
}
