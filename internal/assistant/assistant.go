// Package assistant answers free-text questions about the sales data through
// an external language model.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/utilities"
)

// Greeting opens every conversation.
const Greeting = "How may I assist you today?"

// Preamble is the domain context sent ahead of every prompt.
const Preamble = "You are a data analysis assistant specializing in sales data for a supermarket in a hotel named Galaxy Inn, Athi River. " +
	"Your responses should be relevant to sales data analysis, customer trends, " +
	"and provide insightful information. Avoid providing unrelated information. " +
	"Answer in a concise and professional manner.\n\n" +
	"Example:\n" +
	"User: Can you provide an analysis of our monthly sales trends?\n" +
	"Assistant: Certainly! Based on the sales data from the past six months, we see a steady increase in sales volume, with a peak in December. The most popular product during this period was the Galaxy S4, accounting for 30% of total sales.\n\n" +
	"User: "

var (
	ErrEmptyPrompt = fmt.Errorf("%w: prompt is empty", utilities.ErrInvalidRequest)
	// ErrDisabled is returned when no model is configured.
	ErrDisabled = errors.New("assistant is not configured")
)

type Reply struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Assistant struct {
	gen    Generator
	logger *zap.SugaredLogger
}

// New returns an Assistant; a nil generator leaves it disabled.
func New(gen Generator, logger *zap.SugaredLogger) *Assistant {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Assistant{gen: gen, logger: logger}
}

// BuildPrompt wraps prompt in the preamble and the assistant cue.
func BuildPrompt(prompt string) string {
	return Preamble + " " + prompt + " \nAssistant:"
}

// Reply generates an answer to prompt with the echoed preamble and prompt
// removed.
func (a *Assistant) Reply(ctx context.Context, prompt string) (Reply, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Reply{}, ErrEmptyPrompt
	}
	if a.gen == nil {
		return Reply{}, ErrDisabled
	}
	id := utilities.NewKSUID()
	a.logger.Debugw("generating reply", "id", id, "prompt_len", len(prompt))

	out, err := a.gen.Generate(ctx, BuildPrompt(prompt))
	if err != nil {
		return Reply{}, fmt.Errorf("generate reply %s: %w", id, err)
	}
	return Reply{ID: id, Text: clean(out, prompt)}, nil
}

func clean(out, prompt string) string {
	out = strings.TrimSpace(strings.ReplaceAll(out, Preamble, ""))
	return strings.TrimSpace(strings.ReplaceAll(out, prompt, ""))
}
