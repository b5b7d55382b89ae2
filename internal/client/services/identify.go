package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shelfie-app/shelfie/internal/client/models"
	"github.com/shelfie-app/shelfie/internal/logging"
)

// IdentifyAPI is the transport for the external identification service.
// *api.IdentifyClient is the production implementation.
type IdentifyAPI interface {
	ProcessImage(ctx context.Context, endpointURL, image, filename, apiKey string) ([]models.Segment, error)
}

// ProfileSource yields the profile holding the user-configured GPU endpoint.
type ProfileSource interface {
	User() *models.User
}

// IdentifyService submits shelf photos to the user's identification
// endpoint and returns the detected segments, pending acceptance into the
// collection.
type IdentifyService struct {
	api     IdentifyAPI
	profile ProfileSource
	log     logging.Logger
}

func NewIdentifyService(identifyAPI IdentifyAPI, profile ProfileSource, log logging.Logger) *IdentifyService {
	return &IdentifyService{api: identifyAPI, profile: profile, log: log}
}

// ProcessImage sends the image (data-URI or bare base64) for segmentation.
// Segments returned without an id get a locally generated one so the
// add-to-collection idempotence guard always has something to key on.
func (s *IdentifyService) ProcessImage(ctx context.Context, image, filename string) ([]models.Segment, error) {
	u := s.profile.User()
	if u == nil || u.GPUEndpoint == "" {
		return nil, fmt.Errorf("no identification endpoint configured")
	}

	endpoint := endpointURL(u.GPUEndpoint, u.Port)
	segments, err := s.api.ProcessImage(ctx, endpoint, image, filename, u.OpenAIAPIKey)
	if err != nil {
		return nil, fmt.Errorf("identification request failed: %w", err)
	}

	for i := range segments {
		if segments[i].ID == "" {
			segments[i].ID = models.ID(uuid.NewString())
		}
		if segments[i].Name == "" {
			segments[i].Name = models.UnknownGameName
		}
	}
	s.log.Info(ctx, "image processed", "segments", len(segments))
	return segments, nil
}

// endpointURL assembles the identification-service base URL from the
// profile's host and port fields. Hosts entered without a scheme get http.
func endpointURL(host, port string) string {
	if port == "" {
		port = "8080"
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	host = strings.TrimRight(host, "/")
	// A host that already names a port wins over the profile's port field.
	if strings.LastIndex(host, ":") > strings.Index(host, "://") {
		return host
	}
	return host + ":" + port
}
