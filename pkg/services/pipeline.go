package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/adapters/datasource"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/intent"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/llm"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/logging"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/models"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/repositories"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/sqlguard"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/tenant"
)

// historyWriteTimeout bounds the best-effort history insert so a slow
// engine store never delays the response path.
const historyWriteTimeout = 3 * time.Second

// IntentDetector classifies a question. Satisfied by intent.Detector.
type IntentDetector interface {
	Detect(question string) intent.Detection
}

// PipelineService runs questions through the full answering pipeline.
type PipelineService interface {
	// Process answers one question for a tenant. A returned error means
	// the request could not be attempted at all (unknown tenant);
	// pipeline failures are reported inside the response.
	Process(ctx context.Context, tenantID, question, requestID string) (*models.QueryResponse, error)

	// Shutdown releases pooled tenant connections.
	Shutdown()
}

type pipelineService struct {
	detector     IntentDetector
	generator    SQLGenerator
	cleaner      ResultCleaner
	composer     AnswerComposer
	tenants      tenant.Registry
	executors    datasource.Factory
	stats        StatsService
	history      repositories.QueryHistoryRepository
	stageTimeout time.Duration
	logger       *zap.Logger
}

// NewPipelineService wires the pipeline stages together. history may be
// nil when the engine store is not configured.
func NewPipelineService(
	detector IntentDetector,
	generator SQLGenerator,
	cleaner ResultCleaner,
	composer AnswerComposer,
	tenants tenant.Registry,
	executors datasource.Factory,
	stats StatsService,
	history repositories.QueryHistoryRepository,
	stageTimeout time.Duration,
	logger *zap.Logger,
) PipelineService {
	return &pipelineService{
		detector:     detector,
		generator:    generator,
		cleaner:      cleaner,
		composer:     composer,
		tenants:      tenants,
		executors:    executors,
		stats:        stats,
		history:      history,
		stageTimeout: stageTimeout,
		logger:       logger.Named("pipeline"),
	}
}

func (s *pipelineService) Process(ctx context.Context, tenantID, question, requestID string) (*models.QueryResponse, error) {
	if requestID == "" {
		requestID = uuid.NewString()
	}

	dsCfg, err := s.tenants.Resolve(tenantID)
	if err != nil {
		return nil, err
	}

	qc := models.NewQueryContext(requestID, tenantID, question)

	s.logger.Info("Processing question",
		zap.String("request_id", requestID),
		zap.String("tenant_id", tenantID),
		zap.Int("question_len", len(question)))

	s.run(ctx, qc, dsCfg)

	s.stats.Observe(qc)
	s.recordHistory(qc)

	s.logger.Info("Pipeline finished",
		zap.String("request_id", requestID),
		zap.String("state", string(qc.State)),
		zap.Duration("total", time.Since(qc.StartedAt)))

	return models.ResponseFromContext(qc), nil
}

// run executes the stages in order. Each stage either advances the
// state machine or fails the context; a failed context stops the run.
// Panics inside any stage become unknown failures instead of taking
// down the server.
func (s *pipelineService) run(ctx context.Context, qc *models.QueryContext, dsCfg *datasource.Config) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Pipeline panic",
				zap.String("request_id", qc.RequestID),
				zap.Any("panic", r))
			qc.Fail(models.ErrorKindUnknown, "เกิดข้อผิดพลาดภายในระบบ กรุณาลองใหม่อีกครั้ง")
		}
	}()

	// Intent detection and entity extraction.
	start := time.Now()
	det := s.detector.Detect(qc.RawQuestion)
	qc.Intent = det.Intent
	qc.Entities = det.Entities
	qc.Confidence = det.Confidence
	qc.RecordTiming("intent", time.Since(start))
	if !qc.Transition(models.StateIntentDetected) {
		return
	}

	// Screen raw inputs before anything reaches a prompt.
	if findings := sqlguard.ScreenQuestion(qc.RawQuestion, qc.Entities); len(findings) > 0 {
		for _, f := range findings {
			s.logger.Warn("Injection pattern in input",
				zap.String("request_id", qc.RequestID),
				zap.String("source", f.Source),
				zap.String("fingerprint", f.Fingerprint))
		}
		qc.Fail(models.ErrorKindValidation, "คำถามมีรูปแบบที่ไม่ปลอดภัย ไม่สามารถดำเนินการได้")
		return
	}

	// Missing-information check.
	start = time.Now()
	missing := intent.IdentifyMissing(qc.Intent, qc.Entities)
	qc.RecordTiming("info_check", time.Since(start))
	if len(missing) > 0 {
		qc.MissingFields = missing
		if qc.Transition(models.StateMissingInfo) {
			qc.Answer = strings.Join(missing, " ")
		}
		return
	}
	if !qc.Transition(models.StateInfoChecked) {
		return
	}

	// SQL generation.
	start = time.Now()
	genCtx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	sqlText, err := s.generator.Generate(genCtx, qc)
	cancel()
	qc.RecordTiming("generation", time.Since(start))
	if err != nil {
		s.logger.Error("SQL generation failed",
			zap.String("request_id", qc.RequestID),
			zap.Error(err))
		if llm.IsTimeout(err) {
			qc.Fail(models.ErrorKindTimeout, "ระบบใช้เวลาประมวลผลนานเกินไป กรุณาลองใหม่อีกครั้ง")
		} else {
			qc.Fail(models.ErrorKindGeneration, "ไม่สามารถสร้างคำสั่งค้นหาข้อมูลได้ กรุณาลองเปลี่ยนคำถาม")
		}
		return
	}
	qc.SQL = sqlText
	if !qc.Transition(models.StateSQLGenerated) {
		return
	}

	// Validation and rewrite.
	start = time.Now()
	vr := sqlguard.ValidateAndFix(qc.SQL)
	qc.ValidationIssues = vr.Issues
	qc.RecordTiming("validation", time.Since(start))
	if !vr.IsValid {
		s.logger.Warn("Generated SQL rejected",
			zap.String("request_id", qc.RequestID),
			zap.Strings("issues", vr.Issues),
			zap.String("sql", logging.SanitizeSQL(vr.FixedSQL)))
		qc.Fail(models.ErrorKindValidation, "คำสั่งที่สร้างขึ้นไม่ผ่านการตรวจสอบความปลอดภัย")
		return
	}
	qc.SQL = vr.FixedSQL
	if !qc.Transition(models.StateSQLValidated) {
		return
	}

	// Execution against the tenant datasource.
	start = time.Now()
	execCtx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	result, err := s.execute(execCtx, qc, dsCfg)
	cancel()
	qc.RecordTiming("execution", time.Since(start))
	if err != nil {
		s.logger.Error("Query execution failed",
			zap.String("request_id", qc.RequestID),
			zap.String("tenant_id", qc.TenantID),
			zap.String("error", logging.SanitizeError(err)))
		if errors.Is(err, context.DeadlineExceeded) {
			qc.Fail(models.ErrorKindTimeout, "การค้นหาข้อมูลใช้เวลานานเกินไป กรุณาลองใหม่อีกครั้ง")
		} else {
			qc.Fail(models.ErrorKindDB, "ไม่สามารถค้นหาข้อมูลได้ในขณะนี้ กรุณาลองใหม่ภายหลัง")
		}
		return
	}
	qc.Rows = result.Rows
	if !qc.Transition(models.StateExecuted) {
		return
	}

	// Result cleaning and insight derivation.
	start = time.Now()
	qc.CleanedRows, qc.Insights = s.cleaner.Clean(qc.Rows)
	qc.RecordTiming("cleaning", time.Since(start))
	if !qc.Transition(models.StateCleaned) {
		return
	}

	// Answer composition. Never fails: the composer falls back to a
	// template answer when the model is unavailable.
	start = time.Now()
	composeCtx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	qc.Answer = s.composer.Compose(composeCtx, qc)
	cancel()
	qc.RecordTiming("composition", time.Since(start))
	qc.Transition(models.StateAnswered)
}

func (s *pipelineService) execute(ctx context.Context, qc *models.QueryContext, dsCfg *datasource.Config) (*datasource.QueryResult, error) {
	executor, err := s.executors.NewQueryExecutor(ctx, qc.TenantID, dsCfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := executor.Close(); cerr != nil {
			s.logger.Warn("Executor close failed",
				zap.String("request_id", qc.RequestID),
				zap.Error(cerr))
		}
	}()

	return executor.Query(ctx, qc.SQL)
}

// recordHistory persists the run outcome without blocking the response.
// Failures are logged and swallowed.
func (s *pipelineService) recordHistory(qc *models.QueryContext) {
	if s.history == nil {
		return
	}

	entry := &models.QueryHistoryEntry{
		RequestID:  qc.RequestID,
		TenantID:   qc.TenantID,
		Question:   qc.RawQuestion,
		Intent:     qc.Intent,
		SQL:        qc.SQL,
		Success:    qc.Succeeded(),
		DurationMS: time.Since(qc.StartedAt).Milliseconds(),
	}
	if !entry.Success {
		entry.ErrorKind = outcomeLabel(qc)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), historyWriteTimeout)
		defer cancel()
		if err := s.history.Record(ctx, entry); err != nil {
			s.logger.Warn("Failed to record query history",
				zap.String("request_id", entry.RequestID),
				zap.Error(err))
		}
	}()
}

func (s *pipelineService) Shutdown() {
	s.executors.Close()
}
