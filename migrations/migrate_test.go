package migrations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/migrations"
)

func Test_Names_AreOrdered(t *testing.T) {
	names, err := migrations.Names()

	require.NoError(t, err)
	assert.Equal(t, []string{"0001_events.sql", "0002_read_model.sql", "0003_notifications.sql"}, names)
}
