package secrets

import (
	"context"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Keys holds the resolved API credentials for one process lifetime.
type Keys struct {
	OpenAIKey string
	LinearKey string
}

type Provider struct {
	client *secretsmanager.Client

	mu    sync.Mutex
	cache map[string]string
}

func NewProvider(ctx context.Context, region string) (*Provider, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &Provider{
		client: secretsmanager.NewFromConfig(cfg),
		cache:  map[string]string{},
	}, nil
}

// GetValue resolves a secret by id, preferring the process cache, then
// Secrets Manager, then the environment. A managed-store failure is not
// fatal: running without AWS credentials falls back to env vars.
func (p *Provider) GetValue(ctx context.Context, secretID string) string {
	p.mu.Lock()
	if v, ok := p.cache[secretID]; ok {
		p.mu.Unlock()
		return v
	}
	p.mu.Unlock()

	out, err := p.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil || out.SecretString == nil {
		return os.Getenv(secretID)
	}

	val := *out.SecretString
	p.mu.Lock()
	p.cache[secretID] = val
	p.mu.Unlock()
	return val
}

// GetKeys resolves both API credentials, with explicit env fallbacks for
// local development.
func (p *Provider) GetKeys(ctx context.Context, openaiSecretID, linearSecretID string) Keys {
	keys := Keys{
		OpenAIKey: p.GetValue(ctx, openaiSecretID),
		LinearKey: p.GetValue(ctx, linearSecretID),
	}
	if keys.OpenAIKey == "" {
		keys.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	}
	if keys.LinearKey == "" {
		keys.LinearKey = os.Getenv("LINEAR_API_KEY")
	}
	return keys
}
