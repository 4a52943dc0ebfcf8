// Package db provides integration tests for SurrealDB operations.
package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"styleforge/internal/metrics"
	"styleforge/internal/models"
)

var testDB *Client
var testContainer testcontainers.Container

// TestMain sets up and tears down the SurrealDB container for all tests.
func TestMain(m *testing.M) {
	// Disable ryuk (cleanup container) as it can cause issues in some environments
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx := context.Background()

	var err error
	testContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v3.0.0-beta.1",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--log", "info", "--user", "root", "--pass", "root"},
			WaitingFor:   wait.ForLog("Started web server").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start SurrealDB container: %v", err)
	}

	host, err := testContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}
	// Workaround: testcontainers may return "null" as host in some environments
	if host == "" || host == "null" {
		host = "localhost"
	}
	mappedPort, err := testContainer.MappedPort(ctx, "8000")
	if err != nil {
		log.Fatalf("Failed to get mapped port: %v", err)
	}

	testDB, err = NewClient(ctx, Config{
		URL:       fmt.Sprintf("ws://%s:%s/rpc", host, mappedPort.Port()),
		Namespace: "test",
		Database:  "test",
		Username:  "root",
		Password:  "root",
		AuthLevel: "root",
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := testDB.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	code := m.Run()

	_ = testDB.Close(ctx)
	_ = testContainer.Terminate(ctx)

	os.Exit(code)
}

func testArtifact(id string) *models.ContentArtifact {
	return &models.ContentArtifact{
		ID:          id,
		ContentText: "Generated content body.",
		Brief: models.ContentBrief{
			Topic:       "distributed systems",
			ContentType: "blog post",
			KeyPoints:   []string{"consensus", "replication"},
			Length:      models.LengthMedium,
		},
		StyleParameters:   models.StyleParameters{StyleFidelity: 0.8, VocabularyAdherence: 0.72, CreativeFreedom: 0.64},
		RefinementHistory: []models.FeedbackRecord{},
		Metadata: models.ModelMetadata{
			ModelName:   "test-model",
			Temperature: 0.7,
			Timestamp:   time.Now().UTC(),
		},
	}
}

func TestCreateAndGetArtifact(t *testing.T) {
	ctx := context.Background()
	id := fmt.Sprintf("art_%d", time.Now().UnixNano())

	stored, err := testDB.QueryCreateArtifact(ctx, testArtifact(id))
	require.NoError(t, err)
	assert.Equal(t, id, stored.ID)
	assert.Equal(t, "Generated content body.", stored.ContentText)
	assert.Equal(t, "distributed systems", stored.Brief.Topic)
	assert.Equal(t, 0.72, stored.StyleParameters.VocabularyAdherence)

	fetched, err := testDB.QueryGetArtifact(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, stored.ContentText, fetched.ContentText)
	assert.Len(t, fetched.Brief.KeyPoints, 2)
	assert.Equal(t, 1, fetched.Version())
}

func TestGetArtifactNotFound(t *testing.T) {
	ctx := context.Background()

	fetched, err := testDB.QueryGetArtifact(ctx, "does-not-exist")
	require.NoError(t, err, "missing artifact should not error")
	assert.Nil(t, fetched)
}

func TestArtifactRefinementHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	id := fmt.Sprintf("art_hist_%d", time.Now().UnixNano())

	a := testArtifact(id)
	a.RefinementHistory = []models.FeedbackRecord{
		{OverallRating: 3, StyleMatchRating: 2, ContentQualityRating: 4, ElementsToEmphasize: []string{"metaphors"}},
		{OverallRating: 4, StyleMatchRating: 4, ContentQualityRating: 4},
	}
	a.PreviousVersionID = "some-prior-artifact"

	_, err := testDB.QueryCreateArtifact(ctx, a)
	require.NoError(t, err)

	fetched, err := testDB.QueryGetArtifact(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	require.Len(t, fetched.RefinementHistory, 2)
	assert.Equal(t, 2, fetched.RefinementHistory[0].StyleMatchRating)
	assert.Equal(t, []string{"metaphors"}, fetched.RefinementHistory[0].ElementsToEmphasize)
	assert.Equal(t, "some-prior-artifact", fetched.PreviousVersionID)
	assert.Equal(t, 3, fetched.Version())
}

func TestListArtifacts(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("art_list_%d_%d", time.Now().UnixNano(), i)
		_, err := testDB.QueryCreateArtifact(ctx, testArtifact(id))
		require.NoError(t, err)
	}

	artifacts, err := testDB.QueryListArtifacts(ctx, 100)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(artifacts), 3)
}

func TestCreateAndGetFeatureRecord(t *testing.T) {
	ctx := context.Background()
	id := fmt.Sprintf("feat_%d", time.Now().UnixNano())

	record := models.NewNeutralFeatureRecord()
	record.ID = id
	record.ExtractionError = false
	record.VocabularySize = 42
	record.TotalWordCount = 300
	record.WordFrequencies = map[string]int{"hello": 3}
	record.PersonalityTraits["openness"] = 0.8
	record.Summary = "Short and punchy."
	record.Warnings = []string{"skipped bad.pdf"}

	stored, err := testDB.QueryCreateFeatureRecord(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, id, stored.ID)

	fetched, err := testDB.QueryGetFeatureRecord(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, 42, fetched.VocabularySize)
	assert.Equal(t, 300, fetched.TotalWordCount)
	assert.Equal(t, 3, fetched.WordFrequencies["hello"])
	assert.Equal(t, 0.8, fetched.PersonalityTraits["openness"])
	assert.Equal(t, 0.5, fetched.PersonalityTraits["neuroticism"])
	assert.Equal(t, "Short and punchy.", fetched.Summary)
	assert.Equal(t, []string{"skipped bad.pdf"}, fetched.Warnings)
	assert.False(t, fetched.ExtractionError)
}

func TestFeatureRecordDegradedRoundTrip(t *testing.T) {
	ctx := context.Background()
	id := fmt.Sprintf("feat_degraded_%d", time.Now().UnixNano())

	record := models.NewNeutralFeatureRecord()
	record.ID = id

	_, err := testDB.QueryCreateFeatureRecord(ctx, record)
	require.NoError(t, err)

	fetched, err := testDB.QueryGetFeatureRecord(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.True(t, fetched.ExtractionError)
	assert.Equal(t, 0, fetched.TotalWordCount)
}

func TestCreatePersonaImmutable(t *testing.T) {
	ctx := context.Background()
	id := fmt.Sprintf("persona_%d", time.Now().UnixNano())

	p := &models.Persona{
		ID:                 id,
		Name:               "The Essayist",
		Traits:             []string{"reflective", "wry"},
		Background:         "Long-form essays on technology.",
		CommunicationStyle: "Measured, first-person.",
	}

	stored, err := testDB.QueryCreatePersona(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "The Essayist", stored.Name)

	// Personas are read-only once created: a second create must fail.
	_, err = testDB.QueryCreatePersona(ctx, p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyExists), "expected ErrAlreadyExists, got %v", err)

	fetched, err := testDB.QueryGetPersona(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, []string{"reflective", "wry"}, fetched.Traits)

	personas, err := testDB.QueryListPersonas(ctx)
	require.NoError(t, err)
	found := false
	for _, got := range personas {
		if got.ID == id {
			found = true
		}
	}
	assert.True(t, found, "created persona should appear in list")
}

func TestTaskUpsertAndTransitions(t *testing.T) {
	ctx := context.Background()
	id := fmt.Sprintf("task_%d", time.Now().UnixNano())

	rec := &models.TaskRecord{
		ID:    id,
		Kind:  models.TaskKindAnalysis,
		State: models.TaskStatePending,
	}
	require.NoError(t, testDB.QueryUpsertTask(ctx, rec))

	fetched, err := testDB.QueryGetTask(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, models.TaskStatePending, fetched.State)
	created := fetched.CreatedAt

	// Transition to running, then completed; created_at must be preserved.
	rec.State = models.TaskStateRunning
	require.NoError(t, testDB.QueryUpsertTask(ctx, rec))

	ref := "feature_record:abc"
	rec.State = models.TaskStateCompleted
	rec.ResultRef = &ref
	require.NoError(t, testDB.QueryUpsertTask(ctx, rec))

	fetched, err = testDB.QueryGetTask(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, models.TaskStateCompleted, fetched.State)
	require.NotNil(t, fetched.ResultRef)
	assert.Equal(t, ref, *fetched.ResultRef)
	assert.Equal(t, created.UTC(), fetched.CreatedAt.UTC())
	assert.False(t, fetched.UpdatedAt.Before(fetched.CreatedAt))
}

func TestTaskFailedCarriesError(t *testing.T) {
	ctx := context.Background()
	id := fmt.Sprintf("task_fail_%d", time.Now().UnixNano())

	rec := &models.TaskRecord{
		ID:    id,
		Kind:  models.TaskKindGeneration,
		State: models.TaskStateFailed,
		Error: &models.TaskError{Kind: "model_error", Message: "HTTP 500"},
	}
	require.NoError(t, testDB.QueryUpsertTask(ctx, rec))

	fetched, err := testDB.QueryGetTask(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	require.NotNil(t, fetched.Error)
	assert.Equal(t, "model_error", fetched.Error.Kind)
	assert.Equal(t, "HTTP 500", fetched.Error.Message)
}

func TestListTasks(t *testing.T) {
	ctx := context.Background()

	id := fmt.Sprintf("task_list_%d", time.Now().UnixNano())
	require.NoError(t, testDB.QueryUpsertTask(ctx, &models.TaskRecord{
		ID: id, Kind: models.TaskKindRefinement, State: models.TaskStatePending,
	}))

	tasks, err := testDB.QueryListTasks(ctx, 100)
	require.NoError(t, err)

	found := false
	for _, task := range tasks {
		if task.ID == id {
			found = true
		}
	}
	assert.True(t, found, "upserted task should appear in list")
}

func TestQueryTimingsRecorded(t *testing.T) {
	ctx := context.Background()

	collector := metrics.NewCollector()
	testDB.SetMetrics(collector)
	defer testDB.SetMetrics(nil)

	_, err := testDB.QueryGetArtifact(ctx, "does-not-exist")
	require.NoError(t, err)
	_, err = testDB.QueryListPersonas(ctx)
	require.NoError(t, err)

	snap := collector.Snapshot()
	require.NotNil(t, snap.DBQuery)
	assert.Equal(t, int64(2), snap.DBQuery.Count)
}

func TestWipeData(t *testing.T) {
	ctx := context.Background()

	id := fmt.Sprintf("art_wipe_%d", time.Now().UnixNano())
	_, err := testDB.QueryCreateArtifact(ctx, testArtifact(id))
	require.NoError(t, err)

	require.NoError(t, testDB.WipeData(ctx))

	fetched, err := testDB.QueryGetArtifact(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, fetched)
}
