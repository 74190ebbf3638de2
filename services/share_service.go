package services

import (
	"context"
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"geoQuestAPI/internal/types/challenge"
)

const (
	DeepLinkScheme = "geoquest://challenge/"
	qrCodeSize     = 256
)

type ShareService struct {
	catalog *CatalogService
}

func NewShareService(catalog *CatalogService) *ShareService {
	return &ShareService{catalog: catalog}
}

// Share builds the deep link of an existing challenge and a PNG QR code for it.
func (s *ShareService) Share(ctx context.Context, challengeID string) (*challenge.ShareResponse, error) {
	c, err := s.catalog.Get(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	link := DeepLinkScheme + c.ID
	png, err := qrcode.Encode(link, qrcode.Medium, qrCodeSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}

	return &challenge.ShareResponse{
		ChallengeID:  c.ID,
		DeepLink:     link,
		QrCodeBase64: base64.StdEncoding.EncodeToString(png),
	}, nil
}
