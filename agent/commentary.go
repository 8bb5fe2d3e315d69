package agent

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"
)

// ErrNoAnswer is returned when the model produced no text.
var ErrNoAnswer = errors.New("no answer from the model")

// CommentPrompt returns the prompt asking for a commentary of a rendered summary.
func CommentPrompt(summary, question string) string {
	question = strings.TrimSpace(question)
	if question == "" {
		question = "Comment on the state of this portfolio: what drives its performance, and what stands out?"
	}
	return "Here is the current summary of my portfolio:\n\n" + summary + "\n\n" + question
}

// Comment asks the model a one-shot question about a rendered summary.
func Comment(ctx context.Context, client *genai.Client, model, summary, question string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: instruction(`
You are the analyst of a personal portfolio. Only use the figures of the summary you are
given. The total gain of a holding is split into a price gain and a currency gain.
Answer in markdown, briefly.`),
	}
	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(CommentPrompt(summary, question)), config)
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrNoAnswer
	}
	text := contentText(resp.Candidates[0].Content)
	if strings.TrimSpace(text) == "" {
		return "", ErrNoAnswer
	}
	return text, nil
}
