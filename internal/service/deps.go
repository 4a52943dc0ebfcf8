// Package service provides business logic for the styleforge pipeline.
package service

import (
	"context"

	"styleforge/internal/models"
)

// Store is the persistence surface the services need. *db.Client satisfies
// it; tests substitute an in-memory fake.
type Store interface {
	QueryCreateArtifact(ctx context.Context, a *models.ContentArtifact) (*models.ContentArtifact, error)
	QueryGetArtifact(ctx context.Context, id string) (*models.ContentArtifact, error)
	QueryListArtifacts(ctx context.Context, limit int) ([]models.ContentArtifact, error)

	QueryCreateFeatureRecord(ctx context.Context, f *models.StyleFeatureRecord) (*models.StyleFeatureRecord, error)
	QueryGetFeatureRecord(ctx context.Context, id string) (*models.StyleFeatureRecord, error)

	QueryCreatePersona(ctx context.Context, p *models.Persona) (*models.Persona, error)
	QueryGetPersona(ctx context.Context, id string) (*models.Persona, error)
	QueryListPersonas(ctx context.Context) ([]models.Persona, error)

	QueryUpsertTask(ctx context.Context, t *models.TaskRecord) error
	QueryGetTask(ctx context.Context, id string) (*models.TaskRecord, error)
	QueryListTasks(ctx context.Context, limit int) ([]models.TaskRecord, error)
}

// Completer is the model surface the services need. *llm.Model satisfies it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	ModelName() string
	Temperature() float64
}
