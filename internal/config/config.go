package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env             string        `mapstructure:"ENV"`
	Port            string        `mapstructure:"PORT"`
	AdminKey        string        `mapstructure:"ADMIN_KEY"`
	CORSAllowed     string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	MaxUploadSizeMB int64         `mapstructure:"MAX_UPLOAD_MB"`

	AWSRegion string `mapstructure:"AWS_REGION"`
	S3Bucket  string `mapstructure:"S3_BUCKET"`

	OpenAIBaseURL         string `mapstructure:"OPENAI_BASE_URL"`
	OpenAIModel           string `mapstructure:"OPENAI_MODEL"`
	OpenAITranscribeModel string `mapstructure:"OPENAI_TRANSCRIBE_MODEL"`
	OpenAISecretID        string `mapstructure:"OPENAI_SECRET_ID"`
	OpenAIAPIKey          string `mapstructure:"OPENAI_API_KEY"`

	LinearBaseURL  string `mapstructure:"LINEAR_BASE_URL"`
	LinearSecretID string `mapstructure:"LINEAR_SECRET_ID"`
	LinearAPIKey   string `mapstructure:"LINEAR_API_KEY"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("REQUEST_TIMEOUT", "120s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_UPLOAD_MB", 50)
	v.SetDefault("AWS_REGION", "us-west-2")
	v.SetDefault("S3_BUCKET", "linear-request-uploads")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com")
	v.SetDefault("OPENAI_MODEL", "gpt-4.1-mini")
	v.SetDefault("OPENAI_TRANSCRIBE_MODEL", "gpt-4o-transcribe")
	v.SetDefault("OPENAI_SECRET_ID", "OPENAI_API_KEY")
	v.SetDefault("LINEAR_BASE_URL", "https://api.linear.app")
	v.SetDefault("LINEAR_SECRET_ID", "LINEAR_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
