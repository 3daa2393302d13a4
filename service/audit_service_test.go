package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/config"
	"github.com/ludo-technologies/schemascan/internal/constants"
	"github.com/ludo-technologies/schemascan/internal/testutil"
)

func runAudit(t *testing.T, cfg *config.Config, schema *domain.Schema, checkpoints ...string) *domain.AuditResponse {
	t.Helper()
	service := NewAuditService(cfg, nil, nil)
	response, err := service.Audit(context.Background(), domain.AuditRequest{
		Schema:      schema,
		Checkpoints: checkpoints,
	})
	require.NoError(t, err)
	require.NotNil(t, response)
	return response
}

func TestAuditService_EmptySchemaIsAllGood(t *testing.T) {
	response := runAudit(t, nil, testutil.NewSchema().Build())

	require.Len(t, response.Checkpoints, len(constants.AllCheckpointIDs()))
	for i, cp := range response.Checkpoints {
		assert.Equal(t, constants.AllCheckpointIDs()[i], cp.ID, "report order")
		assert.Equal(t, domain.StatusGood, cp.Status, cp.ID)
		assert.Zero(t, cp.IssueCount, cp.ID)
		assert.Empty(t, cp.ActionItems, cp.ID)
		assert.False(t, cp.Degraded, cp.ID)
	}
	assert.Equal(t, len(constants.AllCheckpointIDs()), response.Summary.GoodCheckpoints)
	assert.NotEmpty(t, response.RunID)
	assert.Len(t, response.Dimensions, 4)
	for _, d := range response.Dimensions {
		assert.True(t, d.Reconciles(), d.Dimension)
	}
}

func TestAuditService_BidirectionalPairIsNotACycle(t *testing.T) {
	schema := testutil.NewSchema().
		Model("Article", testutil.Ref("author", "Author")).
		Model("Author", testutil.RefList("articles", "Article")).
		Build()

	response := runAudit(t, nil, schema)

	cycles := response.Checkpoint(constants.CheckpointRelationCycles)
	require.NotNil(t, cycles)
	assert.Equal(t, domain.StatusGood, cycles.Status)
	assert.Zero(t, cycles.IssueCount)
	assert.Contains(t, strings.Join(cycles.Findings, "\n"), "Article ↔ Author reference each other")

	require.NotNil(t, response.Artifacts.Cycles)
	assert.Empty(t, response.Artifacts.Cycles.Cycles)
	require.Len(t, response.Artifacts.Cycles.BidirectionalPairs, 1)
	pair := response.Artifacts.Cycles.BidirectionalPairs[0]
	assert.Equal(t, "Article", pair.A)
	assert.Equal(t, "Author", pair.B)
}

func TestAuditService_ThreeEntityCycle(t *testing.T) {
	schema := testutil.NewSchema().
		Model("Y", testutil.Ref("z", "Z")).
		Model("Z", testutil.Ref("x", "X")).
		Model("X", testutil.Ref("y", "Y")).
		Build()

	response := runAudit(t, nil, schema)

	cycles := response.Checkpoint(constants.CheckpointRelationCycles)
	require.NotNil(t, cycles)
	assert.Equal(t, 1, cycles.IssueCount)
	assert.Equal(t, domain.StatusWarning, cycles.Status)
	require.Len(t, cycles.Examples, 1)
	assert.Equal(t, []string{"X", "Y", "Z"}, cycles.Examples[0].Items)
	assert.Equal(t, "X → Y → Z → X", cycles.Examples[0].Title)
	assert.NotEmpty(t, cycles.ActionItems)

	assert.Empty(t, response.Artifacts.Cycles.BidirectionalPairs)
}

func TestAuditService_SingleValueEnumerationNeverGood(t *testing.T) {
	schema := testutil.NewSchema().
		Model("Article", testutil.Scalar("title"), testutil.EnumField("status", "Status")).
		Enum("Status", "published").
		Build()

	response := runAudit(t, nil, schema)
	cp := response.Checkpoint(constants.CheckpointSingleValueEnumerations)
	require.NotNil(t, cp)
	assert.Equal(t, domain.StatusWarning, cp.Status)
	assert.Equal(t, 1, cp.IssueCount)

	strict := config.DefaultConfig()
	strict.Checkpoints.WarningThresholds[constants.CheckpointSingleValueEnumerations] = 0
	response = runAudit(t, strict, schema)
	cp = response.Checkpoint(constants.CheckpointSingleValueEnumerations)
	require.NotNil(t, cp)
	assert.Equal(t, domain.StatusIssue, cp.Status)
}

func TestAuditService_DuplicateModels(t *testing.T) {
	t.Run("full overlap is redundant", func(t *testing.T) {
		fields := testutil.Scalars("title", "slug", "body", "summary", "image")
		schema := testutil.NewSchema().
			Model("Article", fields...).
			Model("Post", fields...).
			Build()

		response := runAudit(t, nil, schema, constants.CheckpointDuplicateModels)
		require.Len(t, response.Checkpoints, 1)
		cp := response.Checkpoints[0]
		assert.Equal(t, 1, cp.IssueCount)
		require.Len(t, cp.Examples, 1)
		assert.Equal(t, "Article, Post", cp.Examples[0].Title)
		assert.True(t, strings.HasPrefix(cp.Examples[0].Details, "redundant, 100% similar"), cp.Examples[0].Details)
	})

	t.Run("sixty percent overlap is neither", func(t *testing.T) {
		schema := testutil.NewSchema().
			Model("Article", testutil.Scalars("title", "slug", "body", "summary", "image")...).
			Model("Event", testutil.Scalars("title", "slug", "body", "venue", "startsAt")...).
			Build()

		response := runAudit(t, nil, schema, constants.CheckpointDuplicateModels)
		cp := response.Checkpoints[0]
		assert.Equal(t, domain.StatusGood, cp.Status)
		assert.Empty(t, response.Artifacts.Similarity.EntityGroups)
	})
}

func TestAuditService_DeepRelationChains(t *testing.T) {
	t.Run("seven entities reach high cost", func(t *testing.T) {
		response := runAudit(t, nil, testutil.Chain("A", "B", "C", "D", "E", "F", "G"), constants.CheckpointDeepRelationPaths)
		cp := response.Checkpoints[0]
		assert.Equal(t, 1, cp.IssueCount)
		require.Len(t, cp.Examples, 1)
		assert.Equal(t, "A → B → C → D → E → F → G", cp.Examples[0].Title)
		assert.Equal(t, "6 hops", cp.Examples[0].Details)
	})

	t.Run("six entities stay medium", func(t *testing.T) {
		response := runAudit(t, nil, testutil.Chain("A", "B", "C", "D", "E", "F"), constants.CheckpointDeepRelationPaths)
		cp := response.Checkpoints[0]
		assert.Equal(t, domain.StatusGood, cp.Status)
		assert.Contains(t, strings.Join(cp.Findings, "\n"), "1 medium-cost chain(s)")
	})

	t.Run("self references do not stall the search", func(t *testing.T) {
		names := []string{"A", "B", "C", "D", "E", "F", "G"}
		b := testutil.NewSchema()
		for i, n := range names {
			fields := []domain.Field{testutil.Ref("self", n)}
			if i+1 < len(names) {
				fields = append(fields, testutil.Ref("next", names[i+1]))
			}
			b.Model(n, fields...)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		response, err := NewAuditService(nil, nil, nil).Audit(ctx, domain.AuditRequest{Schema: b.Build()})
		require.NoError(t, err)

		cp := response.Checkpoint(constants.CheckpointDeepRelationPaths)
		require.NotNil(t, cp)
		assert.Equal(t, 1, cp.IssueCount)
		cycles := response.Checkpoint(constants.CheckpointRelationCycles)
		assert.Contains(t, strings.Join(cycles.Findings, "\n"), "Self-referencing entities: A, B, C, D, E, F, G.")
	})
}

func TestAuditService_DanglingReferencesAndExclusions(t *testing.T) {
	schema := testutil.NewSchema().
		Model("Article", testutil.Ref("category", "Category"), testutil.Ref("legacy", "LegacyPost")).
		Model("LegacyPost", testutil.Scalar("title")).
		System("User", testutil.Scalar("email")).
		Build()

	cfg := config.DefaultConfig()
	cfg.Graph.ExcludeEntities = []string{"Legacy*"}
	response := runAudit(t, cfg, schema)

	cp := response.Checkpoint(constants.CheckpointDanglingReferences)
	require.NotNil(t, cp)
	assert.Equal(t, 1, cp.IssueCount)
	assert.Equal(t, "Article.category", cp.Examples[0].Title)

	assert.Equal(t, 1, response.Summary.TotalEntities)
	assert.Equal(t, 2, response.Summary.ExcludedEntities)
}

func TestAuditService_UnusedModelsNeedCounts(t *testing.T) {
	schema := testutil.NewSchema().
		Model("Article", testutil.Scalar("title")).
		Model("Legacy", testutil.Scalar("title")).
		Build()

	response := runAudit(t, nil, schema, constants.CheckpointUnusedModels)
	cp := response.Checkpoints[0]
	assert.Equal(t, domain.StatusGood, cp.Status)
	assert.Contains(t, cp.Findings, "Content counts are unavailable; unused models were not checked.")

	schema.Counts["Article"] = domain.ContentCount{Published: 4}
	schema.Counts["Legacy"] = domain.ContentCount{}
	response = runAudit(t, nil, schema, constants.CheckpointUnusedModels)
	cp = response.Checkpoints[0]
	assert.Equal(t, 1, cp.IssueCount)
	assert.Equal(t, "Legacy", cp.Examples[0].Title)
}

func TestAuditService_CheckpointSelection(t *testing.T) {
	schema := testutil.NewSchema().Model("Article", testutil.Scalar("title")).Build()

	cfg := config.DefaultConfig()
	cfg.Checkpoints.Disabled = []string{constants.CheckpointSEOCoverage}
	response := runAudit(t, cfg, schema)
	assert.Nil(t, response.Checkpoint(constants.CheckpointSEOCoverage))
	assert.Len(t, response.Checkpoints, len(constants.AllCheckpointIDs())-1)

	// An explicit request runs a disabled checkpoint
	response = runAudit(t, cfg, schema, constants.CheckpointSEOCoverage)
	require.Len(t, response.Checkpoints, 1)
	assert.Equal(t, constants.CheckpointSEOCoverage, response.Checkpoints[0].ID)
}

func TestAuditService_InvalidRequests(t *testing.T) {
	service := NewAuditService(nil, nil, nil)
	schema := testutil.NewSchema().Build()

	_, err := service.Audit(context.Background(), domain.AuditRequest{})
	assertInvalidInput(t, err)

	_, err = service.Audit(context.Background(), domain.AuditRequest{Schema: schema, Checkpoints: []string{"no-such-checkpoint"}})
	assertInvalidInput(t, err)

	_, err = service.Audit(context.Background(), domain.AuditRequest{Schema: schema, Dimensions: []domain.Dimension{"speed"}})
	assertInvalidInput(t, err)
}

func assertInvalidInput(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %v", err)
	assert.Equal(t, domain.ErrCodeInvalidInput, domainErr.Code)
}

// stalledExecutor never runs its tasks
type stalledExecutor struct{}

func (stalledExecutor) Execute(context.Context, []domain.ExecutableTask) error {
	return context.DeadlineExceeded
}

func TestAuditService_UnfinishedCheckpointsDegrade(t *testing.T) {
	service := NewAuditService(nil, stalledExecutor{}, nil)
	response, err := service.Audit(context.Background(), domain.AuditRequest{
		Schema: testutil.NewSchema().Model("Article", testutil.Scalar("title")).Build(),
	})
	require.NoError(t, err)

	for _, cp := range response.Checkpoints {
		assert.True(t, cp.Degraded, cp.ID)
		assert.Equal(t, domain.StatusWarning, cp.Status, cp.ID)
		assert.Empty(t, cp.Examples, cp.ID)
		assert.Len(t, cp.Findings, 1, cp.ID)
	}
	require.NotEmpty(t, response.Warnings)
	assert.Contains(t, response.Warnings[0], "checkpoint execution incomplete")

	// Scoring still runs on the shared detectors
	assert.Len(t, response.Dimensions, 4)
}

func TestAuditService_DimensionSubset(t *testing.T) {
	service := NewAuditService(nil, nil, nil)
	response, err := service.Audit(context.Background(), domain.AuditRequest{
		Schema:     testutil.Chain("A", "B"),
		Dimensions: []domain.Dimension{domain.DimensionStructure},
	})
	require.NoError(t, err)
	require.Len(t, response.Dimensions, 1)
	assert.Equal(t, domain.DimensionStructure, response.Dimensions[0].Dimension)
	assert.Equal(t, []domain.Dimension{domain.DimensionStructure}, response.Overall.Dimensions)
}
