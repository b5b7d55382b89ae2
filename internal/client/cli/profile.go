package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/shelfie-app/shelfie/internal/client/api"
)

func (a *App) profile(ctx context.Context) {
	if _, err := a.session.FetchProfile(ctx); err != nil {
		fmt.Println(err.Error())
	}

	u := a.session.User()
	if u == nil {
		fmt.Println("Not logged in")
		return
	}
	fmt.Println("Email:", u.Email)
	fmt.Println("Identification endpoint:", u.GPUEndpoint)
	fmt.Println("Port:", u.Port)
	if u.OpenAIAPIKey != "" {
		fmt.Println("OpenAI API key: configured")
	} else {
		fmt.Println("OpenAI API key: not set")
	}
}

// settings prompts for new profile values; empty answers leave the current
// value untouched.
func (a *App) settings(ctx context.Context) {
	endpoint, err := GetSimpleText(a.reader, "Identification endpoint (empty to keep)")
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	port, err := GetSimpleText(a.reader, "Port (empty to keep)")
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	apiKey, err := GetSimpleText(a.reader, "OpenAI API key (empty to keep)")
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	var settings api.Settings
	if s := strings.TrimSpace(endpoint); s != "" {
		settings.GPUEndpoint = &s
	}
	if s := strings.TrimSpace(port); s != "" {
		settings.Port = &s
	}
	if s := strings.TrimSpace(apiKey); s != "" {
		settings.OpenAIAPIKey = &s
	}
	if settings.GPUEndpoint == nil && settings.Port == nil && settings.OpenAIAPIKey == nil {
		fmt.Println("Nothing to update")
		return
	}

	if err := a.session.UpdateSettings(ctx, settings); err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Println("Settings updated")
}
