package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enel-smeta/utils"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("ENV", "")
	t.Setenv("PDF_ENGINE", "")
	t.Setenv("SHEET_MAPPING", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("ADMIN_TOKEN", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "3050", cfg.HTTP.Port)
	assert.Equal(t, DefaultAllowedOrigins, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "Sheet1!B1:F50", cfg.Google.TableRange)
	assert.Equal(t, utils.DefaultCellMapping, cfg.Google.CellMapping)
	assert.Equal(t, PDFEngineChrome, cfg.PDF.Engine)
	assert.Equal(t, 30*time.Second, cfg.PDF.RenderTimeout)
	assert.Equal(t, DefaultCompany, cfg.Company)
	assert.Empty(t, cfg.HTTP.AdminToken)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", ":8080")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/secrets/sa.json")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "sheet-123")
	t.Setenv("SHEET_MAPPING", "value1=A1,value9=z10")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("NOTIFY_ON_DOWNLOAD", "true")
	t.Setenv("PDF_ENGINE", "FPDF")
	t.Setenv("PDF_FONT_PATH", "/fonts/Inter.ttf")
	t.Setenv("PDF_RENDER_TIMEOUT", "45s")
	t.Setenv("COMPANY_NAME", "ООО Енель")
	t.Setenv("ADMIN_TOKEN", " s3cret ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "/secrets/sa.json", cfg.Google.CredentialsPath)
	assert.Equal(t, map[string]string{"value1": "A1", "value9": "Z10"}, cfg.Google.CellMapping)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.True(t, cfg.Telegram.NotifyOnDownload)
	assert.Equal(t, "s3cret", cfg.HTTP.AdminToken)
	assert.Equal(t, PDFEngineFPDF, cfg.PDF.Engine)
	assert.Equal(t, 45*time.Second, cfg.PDF.RenderTimeout)
	assert.Equal(t, "ООО Енель", cfg.Company.CompanyName)
	assert.Equal(t, DefaultCompany.INN, cfg.Company.INN)
	assert.NoError(t, cfg.ValidateServer())
}

func TestLoadRejectsBadSettings(t *testing.T) {
	t.Setenv("PDF_ENGINE", "wkhtmltopdf")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("PDF_ENGINE", "fpdf")
	t.Setenv("PDF_FONT_PATH", "")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("PDF_ENGINE", "chrome")
	t.Setenv("SHEET_MAPPING", "value1")
	_, err = Load()
	assert.Error(t, err)
}

func TestValidateServer(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateServer())
	cfg.Google.CredentialsPath = "sa.json"
	assert.Error(t, cfg.ValidateServer())
	cfg.Google.SpreadsheetID = "id"
	assert.NoError(t, cfg.ValidateServer())
}

func TestLoadDotEnvOverridesEnvironment(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "from-system")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GOOGLE_SPREADSHEET_ID=from-file\n"), 0o600))

	LoadDotEnv(zerolog.Nop(), path)

	assert.Equal(t, "from-file", os.Getenv("GOOGLE_SPREADSHEET_ID"))
}
