package pgsql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitesutra/construction_erp_app/internal/apperrors"
)

func TestPageTokenRoundTrip(t *testing.T) {
	createdAt := time.Date(2026, 5, 14, 9, 30, 0, 0, time.UTC)

	token := encodePageToken(createdAt, "txn-42")
	require.NotNil(t, token)

	decoded, err := decodePageToken(token)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.True(t, decoded.CreatedAt.Equal(createdAt))
	assert.Equal(t, "txn-42", decoded.ID)
}

func TestDecodePageToken_Empty(t *testing.T) {
	decoded, err := decodePageToken(nil)
	require.NoError(t, err)
	assert.Nil(t, decoded)

	empty := ""
	decoded, err = decodePageToken(&empty)
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestDecodePageToken_Malformed(t *testing.T) {
	for _, token := range []string{"not base64 at all!!!", "bm90IGpzb24"} {
		bad := token
		_, err := decodePageToken(&bad)
		assert.ErrorIs(t, err, apperrors.ErrValidation, "token %q", token)
	}
}

func TestUnmarshalJSONB_NullColumn(t *testing.T) {
	var dst []string
	require.NoError(t, unmarshalJSONB(nil, &dst))
	assert.Nil(t, dst)
}
