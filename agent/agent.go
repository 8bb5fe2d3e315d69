// Package agent lets Gemini comment on the portfolio.
//
// The interactive assistant is a chat with an Analyst expert, that reads the portfolio
// reports through function calls and asks a Market expert for grounded news.
package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

// Agent is the interactive assistant session.
type Agent struct {
	w       io.Writer
	r       *bufio.Reader
	Analyst *Expert
}

// New creates an Agent answering on w the questions read from r.
func New(w io.Writer, r io.Reader, analyst *Expert) *Agent {
	return &Agent{
		w:       w,
		r:       bufio.NewReader(r),
		Analyst: analyst,
	}
}

// Start creates the chats of the analyst and of the experts it can call.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Analyst.experts {
		if err := e.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.Analyst.Start(ctx, client)
}

const prompt = "assist> "

// Run starts the interactive session. prompts are answered first, then questions are read
// until "bye" or the end of the input.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Analyst.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Welcome to nw assist. Type 'bye' to exit.")
	for {
		fmt.Fprint(a.w, prompt)
		var input string
		if len(prompts) > 0 {
			input, prompts = strings.TrimSpace(prompts[0]), prompts[1:]
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			input = strings.TrimSpace(input)
		}

		if input == "bye" {
			return nil
		}
		if input == "" {
			continue
		}

		content, err := a.Analyst.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, contentText(content))
	}
}

// contentText concatenates the text parts of a content.
func contentText(c *genai.Content) string {
	if c == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range c.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
