package services

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoQuestAPI/internal/store"
	"geoQuestAPI/internal/types/challenge"
)

func TestShare(t *testing.T) {
	mem := store.NewMemoryStore()
	_, err := mem.CreateChallenge(context.Background(), &challenge.Challenge{ID: "ch-9", Title: "Bridge Walk"})
	require.NoError(t, err)
	svc := NewShareService(NewCatalogService(mem))

	resp, err := svc.Share(context.Background(), "ch-9")
	require.NoError(t, err)
	assert.Equal(t, "geoquest://challenge/ch-9", resp.DeepLink)

	png, err := base64.StdEncoding.DecodeString(resp.QrCodeBase64)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])

	_, err = svc.Share(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}
