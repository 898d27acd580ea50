package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"enel-smeta/models"
	"enel-smeta/utils"
)

// PDF engines
const (
	PDFEngineChrome = "chrome"
	PDFEngineFPDF   = "fpdf"
)

type HTTPConfig struct {
	Port           string
	AllowedOrigins []string
	// AdminToken guards /admin, the routes are not served when it is empty
	AdminToken     string
}

type GoogleConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	TableRange      string
	SheetName       string
	CellMapping     map[string]string
	ArchiveFolderID string
}

type TelegramConfig struct {
	Token            string
	ChatIDsFile      string
	NotifyOnDownload bool
}

type DBConfig struct {
	URL string
}

type PDFConfig struct {
	Engine        string
	ChromePath    string
	FontPath      string
	RenderTimeout time.Duration
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	Google      GoogleConfig
	Telegram    TelegramConfig
	DB          DBConfig
	PDF         PDFConfig
	GeoIPPath   string
	Company     models.CompanyInfo
}

// DefaultAllowedOrigins are the sites embedding the calculator widget
var DefaultAllowedOrigins = []string{
	"http://127.0.0.1:8888",
	"http://localhost:8888",
	"http://localhost:3000",
	"http://localhost:3050",
	"https://enel-spb.ru",
	"http://enel-spb.ru",
	"https://housespb.tilda.ws",
	"http://housespb.tilda.ws",
	"https://api.enel-spb.ru",
	"http://api.enel-spb.ru",
	"https://api.farvix.shop",
	"http://enelspbapi.craftlify.ru",
	"https://enelspbapi.craftlify.ru",
}

// DefaultCompany holds the banking details printed on quotes when none are configured
var DefaultCompany = models.CompanyInfo{
	BankAccount: "40802810000000187332",
	BankName:    `ООО "Банк Точка"`,
	BIK:         "044525104",
	CorrAccount: "30101810745374525104",
	CompanyName: "ИП Денисов Никита Евгеньевич",
	INN:         "682016289371",
}

// Load reads the configuration from the environment and an optional app.env file.
// It does not require Google credentials, call ValidateServer before starting the HTTP API.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	v.SetDefault("PORT", "3050")
	v.SetDefault("SHEET_TABLE_RANGE", "Sheet1!B1:F50")
	v.SetDefault("SHEET_NAME", "Sheet1")
	v.SetDefault("CHAT_IDS_FILE", "chat_ids.json")
	v.SetDefault("PDF_ENGINE", PDFEngineChrome)
	v.SetDefault("PDF_RENDER_TIMEOUT", "30s")

	environment := v.GetString("APP_ENV")
	if environment == "" {
		environment = v.GetString("ENV")
	}

	credentials := v.GetString("GOOGLE_CREDENTIALS_PATH")
	if credentials == "" {
		credentials = v.GetString("GOOGLE_APPLICATION_CREDENTIALS")
	}

	mapping, err := utils.ParseCellMapping(v.GetString("SHEET_MAPPING"))
	if err != nil {
		return nil, fmt.Errorf("SHEET_MAPPING: %w", err)
	}
	if len(mapping) == 0 {
		mapping = utils.DefaultCellMapping
	}

	cfg := &Config{
		Environment: environment,
		HTTP: HTTPConfig{
			Port:           strings.TrimPrefix(strings.TrimSpace(v.GetString("PORT")), ":"),
			AllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AdminToken:     strings.TrimSpace(v.GetString("ADMIN_TOKEN")),
		},
		Google: GoogleConfig{
			CredentialsPath: credentials,
			SpreadsheetID:   v.GetString("GOOGLE_SPREADSHEET_ID"),
			TableRange:      v.GetString("SHEET_TABLE_RANGE"),
			SheetName:       v.GetString("SHEET_NAME"),
			CellMapping:     mapping,
			ArchiveFolderID: v.GetString("GOOGLE_DRIVE_ARCHIVE_FOLDER_ID"),
		},
		Telegram: TelegramConfig{
			Token:            v.GetString("TELEGRAM_BOT_TOKEN"),
			ChatIDsFile:      v.GetString("CHAT_IDS_FILE"),
			NotifyOnDownload: v.GetBool("NOTIFY_ON_DOWNLOAD"),
		},
		DB: DBConfig{
			URL: v.GetString("DATABASE_URL"),
		},
		PDF: PDFConfig{
			Engine:        strings.ToLower(strings.TrimSpace(v.GetString("PDF_ENGINE"))),
			ChromePath:    v.GetString("CHROME_PATH"),
			FontPath:      v.GetString("PDF_FONT_PATH"),
			RenderTimeout: v.GetDuration("PDF_RENDER_TIMEOUT"),
		},
		GeoIPPath: v.GetString("GEOIP_DB_PATH"),
		Company: models.CompanyInfo{
			BankAccount: valueOr(v.GetString("COMPANY_BANK_ACCOUNT"), DefaultCompany.BankAccount),
			BankName:    valueOr(v.GetString("COMPANY_BANK_NAME"), DefaultCompany.BankName),
			BIK:         valueOr(v.GetString("COMPANY_BIK"), DefaultCompany.BIK),
			CorrAccount: valueOr(v.GetString("COMPANY_CORR_ACCOUNT"), DefaultCompany.CorrAccount),
			CompanyName: valueOr(v.GetString("COMPANY_NAME"), DefaultCompany.CompanyName),
			INN:         valueOr(v.GetString("COMPANY_INN"), DefaultCompany.INN),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Port == "" {
		cfg.HTTP.Port = "3050"
	}
	if len(cfg.HTTP.AllowedOrigins) == 0 {
		cfg.HTTP.AllowedOrigins = DefaultAllowedOrigins
	}
	if cfg.PDF.RenderTimeout <= 0 {
		cfg.PDF.RenderTimeout = 30 * time.Second
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ValidateServer checks the settings the HTTP API cannot start without
func (c *Config) ValidateServer() error {
	if c.Google.CredentialsPath == "" {
		return fmt.Errorf("GOOGLE_CREDENTIALS_PATH is required")
	}
	if c.Google.SpreadsheetID == "" {
		return fmt.Errorf("GOOGLE_SPREADSHEET_ID is required")
	}
	return nil
}

func validate(cfg *Config) error {
	switch cfg.PDF.Engine {
	case PDFEngineChrome, PDFEngineFPDF:
	default:
		return fmt.Errorf("PDF_ENGINE must be %q or %q, got %q", PDFEngineChrome, PDFEngineFPDF, cfg.PDF.Engine)
	}
	if cfg.PDF.Engine == PDFEngineFPDF && cfg.PDF.FontPath == "" {
		return fmt.Errorf("PDF_FONT_PATH is required for the %s engine", PDFEngineFPDF)
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
