package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment variable the tool reads.
const EnvPrefix = "PDFCONVERT_"

type Config struct {
	// Strategy
	MinDocLength int `yaml:"min_doc_length"`

	// OCR
	DPI               int      `yaml:"dpi"`
	Languages         []string `yaml:"languages"`
	MaxOCRConcurrent  int64    `yaml:"max_ocr_concurrent"`
	OCRPagesPerSecond float64  `yaml:"ocr_pages_per_second"`

	// Concurrency: documents converted at once. 1 is strictly sequential.
	Workers int `yaml:"workers"`

	// Output layout, relative to the input directory
	OutputDirName string `yaml:"output_dir"`
	TextDirName   string `yaml:"text_dir"`
	DocDirName    string `yaml:"doc_dir"`
	LogFileName   string `yaml:"log_file"`

	// Loading
	Preflight bool `yaml:"preflight"`

	// Display
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	NoColor   bool   `yaml:"no_color"`
	Progress  bool   `yaml:"progress"`
}

func Default() Config {
	return Config{
		MinDocLength: 1500,

		DPI:               300,
		Languages:         []string{"eng"},
		MaxOCRConcurrent:  1,
		OCRPagesPerSecond: 0,

		Workers: 1,

		OutputDirName: "Converted",
		TextDirName:   "TXTFiles",
		DocDirName:    "DocxFiles",
		LogFileName:   "log.txt",

		Preflight: true,

		LogLevel:  "info",
		LogFormat: "console",
		Progress:  true,
	}
}

// Load layers configuration: defaults, then the YAML file at path (if
// non-empty), then .env and the process environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.MinDocLength = envInt("MIN_DOC_LENGTH", c.MinDocLength)
	c.DPI = envInt("OCR_DPI", c.DPI)
	c.Languages = envList("OCR_LANGUAGES", c.Languages)
	c.MaxOCRConcurrent = int64(envInt("MAX_OCR_CONCURRENT", int(c.MaxOCRConcurrent)))
	c.OCRPagesPerSecond = envFloat("OCR_PAGES_PER_SECOND", c.OCRPagesPerSecond)
	c.Workers = envInt("WORKERS", c.Workers)

	c.OutputDirName = envStr("OUTPUT_DIR_NAME", c.OutputDirName)
	c.TextDirName = envStr("TXT_DIR_NAME", c.TextDirName)
	c.DocDirName = envStr("DOC_DIR_NAME", c.DocDirName)
	c.LogFileName = envStr("LOG_FILE_NAME", c.LogFileName)

	c.Preflight = envBool("PREFLIGHT", c.Preflight)

	c.LogLevel = envStr("LOG_LEVEL", c.LogLevel)
	c.LogFormat = envStr("LOG_FORMAT", c.LogFormat)
	c.NoColor = envBool("NO_COLOR", c.NoColor)
	c.Progress = envBool("PROGRESS", c.Progress)
}

func (c Config) Validate() error {
	if c.MinDocLength < 1 {
		return fmt.Errorf("min_doc_length must be >= 1, got %d", c.MinDocLength)
	}
	if c.DPI <= 0 || c.DPI > 1200 {
		return fmt.Errorf("dpi must be in (0, 1200], got %d", c.DPI)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1")
	}
	if c.MaxOCRConcurrent < 1 {
		return fmt.Errorf("max_ocr_concurrent must be >= 1")
	}
	if c.OCRPagesPerSecond < 0 {
		return fmt.Errorf("ocr_pages_per_second must be >= 0")
	}
	for name, v := range map[string]string{
		"output_dir": c.OutputDirName,
		"text_dir":   c.TextDirName,
		"doc_dir":    c.DocDirName,
		"log_file":   c.LogFileName,
	} {
		if strings.TrimSpace(v) == "" || strings.ContainsAny(v, `/\`) || v == "." || v == ".." {
			return fmt.Errorf("%s must be a plain name, got %q", name, v)
		}
	}
	if c.TextDirName == c.DocDirName {
		return fmt.Errorf("text_dir and doc_dir must differ")
	}
	return nil
}

func envStr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(EnvPrefix + key))
	if v == "" {
		return fallback
	}
	return v
}

// envInt keeps any integer the user set, out-of-range ones included, so
// Validate reports them instead of them silently reverting to the default.
func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(EnvPrefix + key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(EnvPrefix + key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(EnvPrefix + key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envList(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(EnvPrefix + key))
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == '+' }) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
