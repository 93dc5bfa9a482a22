package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizapp/internal/quiz"
)

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, 15, s.QuestionSeconds())
	assert.Equal(t, 1500, s.FeedbackMS())
	assert.Equal(t, "", s.DBPath())
	assert.Equal(t, quiz.DefaultConfig(), s.QuizConfig())
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[quiz]\nquestion_seconds = 30\n\n[store]\ndb = \"/tmp/q.db\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, s.QuestionSeconds())
	assert.Equal(t, 1500, s.FeedbackMS(), "unset values use defaults")
	assert.Equal(t, "/tmp/q.db", s.DBPath())

	cfg := s.QuizConfig()
	assert.Equal(t, 30*time.Second, cfg.TimeBudget)
	assert.Equal(t, 1500*time.Millisecond, cfg.FeedbackDelay)
}

func TestLoad_OutOfBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[quiz]\nquestion_seconds = 2\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "question_seconds")
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[quiz\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "decode")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		seconds  int
		feedback int
		wantErr  bool
	}{
		{"defaults", 15, 1500, false},
		{"lower bounds", 5, 0, false},
		{"upper bounds", 120, 10000, false},
		{"seconds too low", 4, 1500, true},
		{"seconds too high", 121, 1500, true},
		{"feedback negative", 15, -1, true},
		{"feedback too high", 15, 10001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Settings{}.WithTiming(tt.seconds, tt.feedback).Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	db := "/data/quiz.db"
	s := Settings{Store: StoreSettings{DB: &db}}.WithTiming(20, 500)

	require.NoError(t, Save(path, s))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, got.QuestionSeconds())
	assert.Equal(t, 500, got.FeedbackMS())
	assert.Equal(t, db, got.DBPath())
}

func TestSave_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	err := Save(path, Settings{}.WithTiming(1, 0))
	assert.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "cfg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv(EnvConfig, "")

	assert.Equal(t, filepath.Join(dir, "cfg", "quizapp", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join(dir, "data", "quizapp", "quizapp.db"), DefaultDataPath())
	assert.Equal(t, filepath.Join(dir, "state", "quizapp", "quizapp.log"), DefaultLogPath())

	t.Setenv(EnvConfig, "/etc/quiz.toml")
	assert.Equal(t, "/etc/quiz.toml", DefaultConfigPath())
}
