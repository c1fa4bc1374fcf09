package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ACADEMY_CONFIG_DIR", t.TempDir())
	t.Setenv("ACADEMY_DB_USER", "academy")

	require.NoError(t, Load())

	assert.Equal(t, "development", AppConfig.Environment)
	assert.Equal(t, ":8080", AppConfig.HTTP.Address)
	assert.Equal(t, 10*time.Second, AppConfig.HTTP.ShutdownTimeout)
	assert.Equal(t, "disable", AppConfig.Database.SSLMode)
	assert.Equal(t, 5432, AppConfig.Database.Port)
	assert.Equal(t, 60, AppConfig.Subscription.ExpiryDays)
	assert.False(t, AppConfig.Bot.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ACADEMY_CONFIG_DIR", t.TempDir())
	t.Setenv("ACADEMY_ENVIRONMENT", "production")
	t.Setenv("ACADEMY_DB_USER", "academy")
	t.Setenv("ACADEMY_DB_PASSWORD", "secret")
	t.Setenv("ACADEMY_DB_PORT", "5433")
	t.Setenv("ACADEMY_BOT_ADMIN_IDS", "1, 2,x")

	require.NoError(t, Load())

	assert.True(t, AppConfig.IsProduction())
	assert.Equal(t, "require", AppConfig.Database.SSLMode)
	assert.Equal(t, 5433, AppConfig.Database.Port)
	assert.Equal(t, []int64{1, 2}, AppConfig.Bot.AdminIDs)
	assert.Contains(t, AppConfig.Database.DSN(), "sslmode=require")
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "missing db user", env: map[string]string{}, wantErr: "ACADEMY_DB_USER is required"},
		{
			name:    "bot without token",
			env:     map[string]string{"ACADEMY_DB_USER": "u", "ACADEMY_BOT_ENABLED": "true"},
			wantErr: "ACADEMY_BOT_TOKEN is required",
		},
		{
			name:    "production without password",
			env:     map[string]string{"ACADEMY_DB_USER": "u", "ACADEMY_ENVIRONMENT": "production"},
			wantErr: "ACADEMY_DB_PASSWORD is required in production",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ACADEMY_CONFIG_DIR", t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
