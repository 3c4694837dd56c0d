package migrations_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/migrations"
	"github.com/schoollibrary/circulation/testutil/postgreswrapper"
)

func Test_Apply_IsRepeatable(t *testing.T) {
	// arrange
	ctx := context.Background()
	wrapper := postgreswrapper.New(t)

	// act
	err := migrations.Apply(ctx, wrapper.Pool())

	// assert
	require.NoError(t, err)

	names, err := migrations.Names()
	require.NoError(t, err)
	assert.Equal(t, len(names), wrapper.Count(t, "schema_migrations"))
}
