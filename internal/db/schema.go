package db

// SchemaSQL contains the database schema initialization SQL.
const SchemaSQL = `
    -- ==========================================================================
    -- ARTIFACT TABLE (generated content + refinement lineage)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS artifact SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS content_text ON artifact TYPE string;
    DEFINE FIELD IF NOT EXISTS content_brief ON artifact TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS style_parameters ON artifact TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS refinement_history ON artifact TYPE array<object> FLEXIBLE;
    -- Note: Must REMOVE then DEFINE to ensure FLEXIBLE is set (IF NOT EXISTS won't update existing field)
    REMOVE FIELD IF EXISTS refinement_history.* ON artifact;
    DEFINE FIELD refinement_history.* ON artifact TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS persona_id ON artifact TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS previous_version_id ON artifact TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS model_metadata ON artifact TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS created ON artifact TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS artifact_persona ON artifact FIELDS persona_id;
    DEFINE INDEX IF NOT EXISTS artifact_previous ON artifact FIELDS previous_version_id;

    -- ==========================================================================
    -- FEATURE_RECORD TABLE (style fingerprints)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS feature_record SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS vocabulary_size ON feature_record TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS avg_word_length ON feature_record TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS word_frequencies ON feature_record TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS rare_words ON feature_record TYPE array<string>;
    DEFINE FIELD IF NOT EXISTS avg_sentence_length ON feature_record TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS sentence_length_variation ON feature_record TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS sentence_structures ON feature_record TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS idioms ON feature_record TYPE array<string>;
    DEFINE FIELD IF NOT EXISTS metaphors ON feature_record TYPE array<string>;
    DEFINE FIELD IF NOT EXISTS transition_phrases ON feature_record TYPE array<string>;
    DEFINE FIELD IF NOT EXISTS punctuation_usage ON feature_record TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS passive_voice_frequency ON feature_record TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS active_voice_frequency ON feature_record TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS personality_traits ON feature_record TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS writing_style_traits ON feature_record TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS summary ON feature_record TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS distinguishing_characteristics ON feature_record TYPE array<string>;
    DEFINE FIELD IF NOT EXISTS recommendations ON feature_record TYPE array<string>;
    DEFINE FIELD IF NOT EXISTS document_count ON feature_record TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS total_word_count ON feature_record TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS total_sentence_count ON feature_record TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS extraction_error ON feature_record TYPE bool DEFAULT false;
    DEFINE FIELD IF NOT EXISTS warnings ON feature_record TYPE array<string>;
    DEFINE FIELD IF NOT EXISTS created ON feature_record TYPE datetime DEFAULT time::now();

    -- ==========================================================================
    -- PERSONA TABLE (author voices, read-only once created)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS persona SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON persona TYPE string;
    DEFINE FIELD IF NOT EXISTS traits ON persona TYPE array<string>;
    DEFINE FIELD IF NOT EXISTS background ON persona TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS communication_style ON persona TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS derived_from ON persona TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS created ON persona TYPE datetime DEFAULT time::now();

    -- ==========================================================================
    -- TASK TABLE (async task records, best-effort persistence)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS task SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS kind ON task TYPE string;
    DEFINE FIELD IF NOT EXISTS state ON task TYPE string
        ASSERT $value IN ["pending", "running", "completed", "failed"];
    DEFINE FIELD IF NOT EXISTS result_ref ON task TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS error ON task TYPE option<object> FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS created_at ON task TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated_at ON task TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS task_state ON task FIELDS state;
    DEFINE INDEX IF NOT EXISTS task_kind ON task FIELDS kind;
`
