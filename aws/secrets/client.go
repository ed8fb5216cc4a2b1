// Package secrets reads database credentials from AWS Secrets Manager.
package secrets

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"github.com/mitchellh/mapstructure"
	"github.com/relloyd/dpu/errs"
	"github.com/relloyd/dpu/helper"
	"github.com/relloyd/dpu/rdbms"
)

const serviceName = "secretsmanager"

// CredentialsGetter fetches the credential bundle stored under a secret id.
type CredentialsGetter interface {
	GetCredentials(ctx context.Context, secretId string) (rdbms.Credentials, error)
}

// SecretMapGetter fetches a secret stored as a JSON object.
type SecretMapGetter interface {
	GetSecretMap(ctx context.Context, secretId string) (map[string]interface{}, error)
}

type Client struct {
	api secretsmanageriface.SecretsManagerAPI
}

func NewClient(sess client.ConfigProvider) *Client {
	return &Client{api: secretsmanager.New(sess)}
}

func NewClientWithAPI(api secretsmanageriface.SecretsManagerAPI) *Client {
	return &Client{api: api}
}

// GetSecretMap returns the JSON object stored as the secret string.
func (c *Client) GetSecretMap(ctx context.Context, secretId string) (map[string]interface{}, error) {
	if strings.TrimSpace(secretId) == "" {
		return nil, errs.NewConfigurationError("get secret", "empty secret id")
	}
	out, err := c.api.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretId),
	})
	if err != nil {
		return nil, errs.External(serviceName, "get secret value", err)
	}
	if out.SecretString == nil {
		return nil, errs.NewConfigurationError("get secret", "secret %q has no string value", secretId)
	}
	m := make(map[string]interface{})
	if err = json.Unmarshal([]byte(aws.StringValue(out.SecretString)), &m); err != nil {
		return nil, errs.NewConfigurationError("get secret", "secret %q is not a JSON object: %v", secretId, err)
	}
	return m, nil
}

// GetCredentials decodes the secret into jdbc, username and password.
func (c *Client) GetCredentials(ctx context.Context, secretId string) (rdbms.Credentials, error) {
	var creds rdbms.Credentials
	m, err := c.GetSecretMap(ctx, secretId)
	if err != nil {
		return creds, err
	}
	if err = mapstructure.WeakDecode(m, &creds); err != nil {
		return creds, errs.NewConfigurationError("get secret", "unable to decode secret %q: %v", secretId, err)
	}
	if err = helper.ValidateStructIsPopulated(creds); err != nil {
		return creds, errs.NewConfigurationError("get secret", "secret %q: %v", secretId, err)
	}
	return creds, nil
}

// CachingClient remembers credentials per secret id for the life of a run.
type CachingClient struct {
	Getter  CredentialsGetter
	mu      sync.Mutex
	entries map[string]rdbms.Credentials
}

func NewCachingClient(g CredentialsGetter) *CachingClient {
	return &CachingClient{Getter: g, entries: make(map[string]rdbms.Credentials)}
}

func (c *CachingClient) GetCredentials(ctx context.Context, secretId string) (rdbms.Credentials, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.entries[secretId]; ok {
		return v, nil
	}
	v, err := c.Getter.GetCredentials(ctx, secretId)
	if err != nil {
		return v, err
	}
	c.entries[secretId] = v
	return v, nil
}
