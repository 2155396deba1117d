// Package summary generates an optional natural-language recap of a
// finished report. It is a collaborator of the engine, never part of it:
// when no API key is configured the rest of the service works unchanged.
package summary

import (
	"context"
	"fmt"
	"strings"

	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/icco/rewind/lib/rewind"
)

type Generator struct {
	client *openai.Client
	logger *slog.Logger
}

// New returns a Generator, or nil when no API key is configured.
func New(apiKey string, logger *slog.Logger) *Generator {
	if apiKey == "" {
		return nil
	}
	return &Generator{
		client: openai.NewClient(apiKey),
		logger: logger,
	}
}

// Recap produces a short, playful paragraph summarizing the year.
func (g *Generator) Recap(ctx context.Context, username string, rep *rewind.Report) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Username: %s, year: %d\n", username, rep.Year)
	fmt.Fprintf(&sb, "Persona: %s (%s)\n", rep.Persona.Title, rep.Persona.Description)
	fmt.Fprintf(&sb, "Anime completed: %d, episodes: %d, days watched: %.1f\n",
		rep.Overall.AnimeCompleted, rep.Overall.EpisodesWatched, rep.Overall.TotalDaysWatched)
	fmt.Fprintf(&sb, "Manga completed: %d, chapters: %d\n",
		rep.Overall.MangaCompleted, rep.Overall.ChaptersRead)
	fmt.Fprintf(&sb, "Average score: %.2f/100\n", rep.Overall.AverageScore)
	for i, g := range rep.Overall.TopGenres {
		if i == 3 {
			break
		}
		fmt.Fprintf(&sb, "Top genre %d: %s (%d titles)\n", i+1, g.Name, g.Count)
	}
	if rep.Overall.BestAnime != nil {
		fmt.Fprintf(&sb, "Anime of the year: %s\n", rep.Overall.BestAnime.Title)
	}
	if rep.Overall.BestManga != nil {
		fmt.Fprintf(&sb, "Manga of the year: %s\n", rep.Overall.BestManga.Title)
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: "You write a single short, playful paragraph summarizing a user's year of anime and manga from the stats provided. Address the user directly. No lists, no markdown.",
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: sb.String(),
		},
	}

	req := openai.ChatCompletionRequest{
		Model:    openai.GPT4oMini20240718,
		Messages: messages,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to generate recap: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty recap response")
	}

	recap := strings.TrimSpace(resp.Choices[0].Message.Content)
	g.logger.Debug("Generated recap",
		slog.String("username", username),
		slog.Int("length", len(recap)))

	return recap, nil
}
