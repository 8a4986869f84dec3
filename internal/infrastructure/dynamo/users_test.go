package dynamo

import (
	"context"
	"errors"
	"testing"

	"github.com/caravanly/caravan-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	id := "01J8ZK2Q4R5S6T7V8W9X0Y1Z2A"
	decoded, err := decodeCursor(encodeCursor(id))
	require.NoError(t, err)
	assert.Equal(t, id, decoded)
}

func TestQueryPage_InvalidCursor(t *testing.T) {
	repo := NewUserRepo(nil, "users")
	_, _, err := repo.QueryPage(context.Background(), 20, "not!base64")
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}
