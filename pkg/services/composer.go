package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/llm"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/models"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/prompts"
)

// maxSampleRows bounds how many cleaned rows are shown to the model.
const maxSampleRows = 10

// AnswerComposer turns cleaned results into a Thai natural-language
// answer. Composition never fails the pipeline: when the model is
// unreachable or returns nothing usable, a deterministic template
// answer is built from the insights instead.
type AnswerComposer interface {
	Compose(ctx context.Context, qc *models.QueryContext) string
}

type answerComposer struct {
	client      llm.LLMClient
	temperature float64
	logger      *zap.Logger
}

// NewAnswerComposer creates a composer delegating to the given LLM client.
func NewAnswerComposer(client llm.LLMClient, temperature float64, logger *zap.Logger) AnswerComposer {
	return &answerComposer{
		client:      client,
		temperature: temperature,
		logger:      logger.Named("composer"),
	}
}

func (c *answerComposer) Compose(ctx context.Context, qc *models.QueryContext) string {
	sample := qc.CleanedRows
	if len(sample) > maxSampleRows {
		sample = sample[:maxSampleRows]
	}

	prompt := prompts.BuildAnswerPrompt(qc, sample)
	answer, err := c.client.GenerateResponse(ctx, prompt, prompts.AnswerSystemMessage, c.temperature)
	if err != nil {
		c.logger.Warn("Answer composition via model failed, using template",
			zap.String("request_id", qc.RequestID),
			zap.Error(err))
		return FallbackAnswer(qc.Insights)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		c.logger.Warn("Model returned empty answer, using template",
			zap.String("request_id", qc.RequestID))
		return FallbackAnswer(qc.Insights)
	}
	return answer
}

// FallbackAnswer builds a deterministic Thai answer from derived
// insights. It is the answer of last resort and always returns
// non-empty text.
func FallbackAnswer(insights *models.Insights) string {
	if insights == nil || insights.RowCount == 0 {
		return "ไม่พบข้อมูลที่ตรงกับคำถามของคุณ"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "พบข้อมูลทั้งหมด %d รายการ", insights.RowCount)

	for _, col := range sortedColumns(insights.Numeric) {
		s := insights.Numeric[col]
		fmt.Fprintf(&b, " คอลัมน์ %s มียอดรวม %s (ต่ำสุด %s สูงสุด %s)",
			col, formatNumber(s.Sum), formatNumber(s.Min), formatNumber(s.Max))
	}

	if len(insights.Top) > 0 {
		top := insights.Top[0]
		fmt.Fprintf(&b, " อันดับสูงสุดคือ %s ที่ %s", top.Label, formatNumber(top.Value))
	}

	for _, note := range insights.Notes {
		b.WriteString(" ")
		b.WriteString(note)
	}

	return b.String()
}

// formatNumber renders a float without a trailing ".00" when the value
// is integral.
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func sortedColumns(m map[string]models.NumericSummary) []string {
	cols := make([]string, 0, len(m))
	for col := range m {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}
