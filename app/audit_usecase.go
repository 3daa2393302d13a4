package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/logging"
	"github.com/ludo-technologies/schemascan/service"
)

// CountSampler fills a schema's content counts from an external source
type CountSampler interface {
	Sample(ctx context.Context, schema *domain.Schema) ([]service.CountSkip, error)
}

// HistoryRecorder persists finished audits
type HistoryRecorder interface {
	Save(ctx context.Context, response *domain.AuditResponse) error
}

// AuditConfig holds the per-run options of the audit use case
type AuditConfig struct {
	// SchemaPath is reported in the response; it is also read when no
	// schema source was configured
	SchemaPath string

	Checkpoints []string
	Dimensions  []domain.Dimension

	// Output options; a nil writer skips report writing
	OutputFormat domain.OutputFormat
	OutputWriter io.Writer
}

// AuditUseCase loads a schema, samples content counts, audits it, records
// the run and writes the report
type AuditUseCase struct {
	service    domain.AuditService
	source     domain.SchemaSource
	sampler    CountSampler
	writer     domain.ReportWriter
	history    HistoryRecorder
	fileHelper *FileHelper
	logger     *slog.Logger
}

// Execute runs one audit
func (uc *AuditUseCase) Execute(ctx context.Context, cfg AuditConfig) (*domain.AuditResponse, error) {
	if err := uc.validate(cfg); err != nil {
		return nil, err
	}

	schema, schemaPath, err := uc.loadSchema(ctx, cfg.SchemaPath)
	if err != nil {
		return nil, err
	}

	var warnings []string
	if uc.sampler != nil {
		skipped, err := uc.sampler.Sample(ctx, schema)
		if err != nil {
			return nil, err
		}
		for _, s := range skipped {
			warnings = append(warnings, s.Error())
		}
	}

	response, err := uc.service.Audit(ctx, domain.AuditRequest{
		Schema:       schema,
		SchemaPath:   schemaPath,
		Checkpoints:  cfg.Checkpoints,
		Dimensions:   cfg.Dimensions,
		OutputFormat: cfg.OutputFormat,
		OutputWriter: cfg.OutputWriter,
	})
	if err != nil {
		return nil, err
	}
	response.Warnings = append(warnings, response.Warnings...)

	if uc.history != nil {
		if err := uc.history.Save(ctx, response); err != nil {
			uc.logger.Warn("audit history not saved", "run_id", response.RunID, "error", err)
			response.Warnings = append(response.Warnings, fmt.Sprintf("history not saved: %v", err))
		}
	}

	if cfg.OutputWriter != nil {
		if err := uc.writer.Write(response, cfg.OutputFormat, cfg.OutputWriter); err != nil {
			return response, fmt.Errorf("failed to write report: %w", err)
		}
	}
	return response, nil
}

func (uc *AuditUseCase) validate(cfg AuditConfig) error {
	if uc.source == nil && cfg.SchemaPath == "" {
		return domain.NewInvalidInputError("no schema specified", nil)
	}
	switch cfg.OutputFormat {
	case "", domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML:
	default:
		return domain.NewInvalidInputError(fmt.Sprintf("unsupported report format: %s", cfg.OutputFormat), nil)
	}
	return nil
}

func (uc *AuditUseCase) loadSchema(ctx context.Context, path string) (*domain.Schema, string, error) {
	source := uc.source
	if source == nil {
		resolved, err := uc.fileHelper.ResolveSchemaPath(path)
		if err != nil {
			return nil, "", domain.NewFileNotFoundError(path, err)
		}
		path = resolved
		source = service.NewFileSchemaSource(resolved)
	}
	schema, err := source.Load(ctx)
	if err != nil {
		return nil, "", err
	}
	return schema, path, nil
}

// AuditUseCaseBuilder builds an AuditUseCase
type AuditUseCaseBuilder struct {
	service    domain.AuditService
	source     domain.SchemaSource
	sampler    CountSampler
	writer     domain.ReportWriter
	history    HistoryRecorder
	fileHelper *FileHelper
	logger     *slog.Logger
}

// NewAuditUseCaseBuilder creates a new builder
func NewAuditUseCaseBuilder() *AuditUseCaseBuilder {
	return &AuditUseCaseBuilder{}
}

// WithService sets the audit service
func (b *AuditUseCaseBuilder) WithService(s domain.AuditService) *AuditUseCaseBuilder {
	b.service = s
	return b
}

// WithSchemaSource sets where the schema comes from; without one the
// schema is read from AuditConfig.SchemaPath
func (b *AuditUseCaseBuilder) WithSchemaSource(s domain.SchemaSource) *AuditUseCaseBuilder {
	b.source = s
	return b
}

// WithCountSampler enables content-count sampling before the audit
func (b *AuditUseCaseBuilder) WithCountSampler(s CountSampler) *AuditUseCaseBuilder {
	b.sampler = s
	return b
}

// WithReportWriter sets the report writer
func (b *AuditUseCaseBuilder) WithReportWriter(w domain.ReportWriter) *AuditUseCaseBuilder {
	b.writer = w
	return b
}

// WithHistory enables saving finished audits
func (b *AuditUseCaseBuilder) WithHistory(h HistoryRecorder) *AuditUseCaseBuilder {
	b.history = h
	return b
}

// WithFileHelper sets the file helper
func (b *AuditUseCaseBuilder) WithFileHelper(fh *FileHelper) *AuditUseCaseBuilder {
	b.fileHelper = fh
	return b
}

// WithLogger sets the logger
func (b *AuditUseCaseBuilder) WithLogger(logger *slog.Logger) *AuditUseCaseBuilder {
	b.logger = logger
	return b
}

// Build creates the AuditUseCase
func (b *AuditUseCaseBuilder) Build() (*AuditUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("audit service is required")
	}

	uc := &AuditUseCase{
		service:    b.service,
		source:     b.source,
		sampler:    b.sampler,
		writer:     b.writer,
		history:    b.history,
		fileHelper: b.fileHelper,
		logger:     logging.OrDiscard(b.logger),
	}

	if uc.writer == nil {
		uc.writer = service.NewOutputFormatter()
	}
	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}

	return uc, nil
}
