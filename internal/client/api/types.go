package api

import "github.com/shelfie-app/shelfie/internal/client/models"

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	GPUEndpoint string `json:"gpu_endpoint"`
}

type registerResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	GPUEndpoint string `json:"gpu_endpoint"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type logoutRequest struct {
	Token string `json:"token"`
}

// ProfileFields are the server-authoritative profile attributes served by
// the gpu-endpoint resource.
type ProfileFields struct {
	GPUEndpoint  string `json:"gpu_endpoint"`
	OpenAIAPIKey string `json:"openai_api_key"`
	Port         string `json:"port"`
}

// Settings is a partial profile update. Nil fields are not sent.
type Settings struct {
	GPUEndpoint  *string `json:"gpu_endpoint,omitempty"`
	OpenAIAPIKey *string `json:"openai_api_key,omitempty"`
	Port         *string `json:"port,omitempty"`
}

// AddItemRequest is the payload for creating a collection item. ImageData
// must be a bare base64 body, not a data-URI.
type AddItemRequest struct {
	GameName  string `json:"game_name"`
	ImageData string `json:"image_data"`
	Shelf     string `json:"shelf"`
	Case      string `json:"case"`
}

type itemImageResponse struct {
	ImageData string `json:"image_data"`
}

type segmentsResponse struct {
	Segments []models.Segment `json:"segments"`
}

// detailBody is the FastAPI-style error envelope returned by the backend.
type detailBody struct {
	Detail string `json:"detail"`
}
