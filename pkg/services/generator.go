// Package services contains the question-answering pipeline stages and
// their orchestration.
package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/apperrors"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/llm"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/models"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/prompts"
)

// SQLGenerator produces a candidate SQL statement for a query context.
type SQLGenerator interface {
	Generate(ctx context.Context, qc *models.QueryContext) (string, error)
}

type sqlGenerator struct {
	client      llm.LLMClient
	temperature float64
	logger      *zap.Logger
}

// NewSQLGenerator creates a generator delegating to the given LLM client.
func NewSQLGenerator(client llm.LLMClient, temperature float64, logger *zap.Logger) SQLGenerator {
	return &sqlGenerator{
		client:      client,
		temperature: temperature,
		logger:      logger.Named("generator"),
	}
}

// Generate calls the language model and extracts the first well-formed
// SELECT statement from its output. The model is treated as an
// untrusted text generator: output may contain prose, markdown fences,
// or multiple statements.
func (g *sqlGenerator) Generate(ctx context.Context, qc *models.QueryContext) (string, error) {
	prompt := prompts.BuildSQLPrompt(qc)

	raw, err := g.client.GenerateResponse(ctx, prompt, prompts.SQLSystemMessage, g.temperature)
	if err != nil {
		return "", fmt.Errorf("llm generation: %w", err)
	}

	sqlText, ok := ExtractSQL(raw)
	if !ok {
		g.logger.Warn("No SQL statement in model output",
			zap.String("request_id", qc.RequestID),
			zap.Int("output_len", len(raw)))
		return "", apperrors.ErrNoSQLFound
	}

	return sqlText, nil
}

var (
	fencePattern  = regexp.MustCompile("(?s)```(?:sql)?\\s*(.*?)```")
	selectPattern = regexp.MustCompile(`(?i)\bSELECT\b`)
	// A bare "with" also appears in English prose; require the CTE shape.
	ctePattern = regexp.MustCompile(`(?is)\bWITH\s+[A-Za-z_][A-Za-z0-9_]*\s+AS\s*\(`)
)

// ExtractSQL isolates the first statement-like substring from raw model
// output. Markdown fences are unwrapped first; the statement starts at
// the first SELECT or WITH keyword and ends at the first unescaped
// semicolon outside string literals (or end of text). Returns false
// when no statement-like substring exists.
func ExtractSQL(raw string) (string, bool) {
	text := raw
	if m := fencePattern.FindStringSubmatch(raw); m != nil {
		text = m[1]
	}

	start := -1
	if loc := selectPattern.FindStringIndex(text); loc != nil {
		start = loc[0]
	}
	if loc := ctePattern.FindStringIndex(text); loc != nil && (start < 0 || loc[0] < start) {
		start = loc[0]
	}
	if start < 0 {
		return "", false
	}
	text = text[start:]

	if end := statementEnd(text); end >= 0 {
		text = text[:end]
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	return text, true
}

// statementEnd returns the index of the first semicolon outside string
// literals, or -1 when there is none.
func statementEnd(text string) int {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal
	prev := rune(0)

	for i, char := range text {
		switch state {
		case stateNormal:
			switch char {
			case ';':
				return i
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			if char == '\'' && prev != '\\' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if char == '"' && prev != '\\' {
				state = stateNormal
			}
		}
		prev = char
	}

	return -1
}
