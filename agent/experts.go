package agent

import (
	"github.com/etnz/networth/docs"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

func instruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

// NewMarket returns the expert of the market news, grounded with Google Search.
func NewMarket(model string) *Expert {
	return &Expert{
		Name: "Market",
		Description: `The Market expert knows the funds, indices and currencies of the portfolio
and the latest news about them. Ask it whenever recent or grounded information is needed.`,
		Model: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
			SystemInstruction: instruction(`
You are an expert of the financial markets. Use Google Search to ground every assertion,
and relate the latest news to the question asked. Be short and factual.`),
		},
	}
}

// NewAnalyst returns the expert talking to the user. It reads the portfolio through
// reports and can ask the other experts.
func NewAnalyst(model string, reports []Report, experts ...*Expert) *Expert {
	functions := make([]Function, 0, len(reports)+len(experts))
	for _, r := range reports {
		functions = append(functions, r)
	}
	for _, e := range experts {
		functions = append(functions, e)
	}
	return &Expert{
		Name:  "Analyst",
		Model: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{{FunctionDeclarations: declarations(functions...)}},
			SystemInstruction: instruction(analystInstruction()),
		},
		Library: NewLibrary(functions...),
		experts: experts,
	}
}

func analystInstruction() string {
	text := `
You are the analyst of a personal portfolio of index funds, valued in the user's reporting
currency. Read the reports from the tools before answering: never guess a figure.
Ask the other experts for market news when the question needs it.
Answer in markdown, briefly.`
	if gains, err := docs.GetTopic("gains"); err == nil {
		text += "\n\nThe reports compute the gains as follows.\n\n" + gains
	}
	return text
}
