// Package graph adapts Microsoft Graph to the reconciler. It lists the
// organization contacts of a tenant, reads and writes the personal contacts
// of a mailbox, and sends the run summary by mail. Every request passes
// through a shared token bucket so one run stays within the per-mailbox
// throttling limits.
package graph

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	abstractions "github.com/microsoft/kiota-abstractions-go"
	azureauth "github.com/microsoft/kiota-authentication-azure-go"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"

	"github.com/m365ops/contactsync/pkg/constants"
	"github.com/m365ops/contactsync/pkg/errors"
	"github.com/m365ops/contactsync/pkg/logging"
)

// ServiceName identifies Graph in API errors.
const ServiceName = "graph"

// Authentication methods.
const (
	MethodClientSecret = "client_secret"
	MethodCertificate  = "certificate"
)

// Credentials identify the application registration used for every request.
// Exactly one of ClientSecret or CertificatePath is expected; the secret wins
// when both are set.
type Credentials struct {
	TenantID            string `json:"tenant_id" yaml:"tenant_id"`
	ClientID            string `json:"client_id" yaml:"client_id"`
	ClientSecret        string `json:"-" yaml:"-"`
	CertificatePath     string `json:"certificate_path,omitempty" yaml:"certificate_path,omitempty"`
	CertificatePassword string `json:"-" yaml:"-"`
}

// Method returns the authentication method the credentials select.
func (c Credentials) Method() string {
	if c.ClientSecret == "" && c.CertificatePath != "" {
		return MethodCertificate
	}
	return MethodClientSecret
}

// Validate checks that the credentials are complete.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.TenantID) == "" {
		return &errors.ValidationError{Field: "tenant_id", Message: "is required"}
	}
	if strings.TrimSpace(c.ClientID) == "" {
		return &errors.ValidationError{Field: "client_id", Message: "is required"}
	}
	if c.ClientSecret == "" && c.CertificatePath == "" {
		return &errors.ValidationError{
			Field:   "client_secret",
			Message: "either a client secret or a certificate path is required",
		}
	}
	return nil
}

// TokenCredential builds the azidentity credential for c.
func (c Credentials) TokenCredential() (azcore.TokenCredential, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	switch c.Method() {
	case MethodCertificate:
		data, err := os.ReadFile(c.CertificatePath)
		if err != nil {
			return nil, errors.WrapIO("read", c.CertificatePath, err)
		}
		certs, key, err := azidentity.ParseCertificates(data, []byte(c.CertificatePassword))
		if err != nil {
			return nil, errors.NewAuthenticationError(c.TenantID, MethodCertificate, "could not parse certificate "+c.CertificatePath, err)
		}
		cred, err := azidentity.NewClientCertificateCredential(c.TenantID, c.ClientID, certs, key,
			&azidentity.ClientCertificateCredentialOptions{SendCertificateChain: true})
		if err != nil {
			return nil, errors.NewAuthenticationError(c.TenantID, MethodCertificate, "error creating credentials from a certificate", err)
		}
		return cred, nil
	default:
		cred, err := azidentity.NewClientSecretCredential(c.TenantID, c.ClientID, c.ClientSecret, nil)
		if err != nil {
			return nil, errors.NewAuthenticationError(c.TenantID, MethodClientSecret, "error creating credentials from a secret", err)
		}
		return cred, nil
	}
}

// Client wraps the Graph service client with rate limiting and error mapping.
type Client struct {
	graph          *msgraphsdk.GraphServiceClient
	limiter        *RateLimiter
	pageSize       int32
	requestTimeout time.Duration
}

// New authenticates with creds and returns a ready client.
func New(creds Credentials, opts ...Option) (*Client, error) {
	cred, err := creds.TokenCredential()
	if err != nil {
		return nil, err
	}

	auth, err := azureauth.NewAzureIdentityAuthenticationProviderWithScopes(cred, []string{constants.GraphScope})
	if err != nil {
		return nil, errors.NewAuthenticationError(creds.TenantID, creds.Method(), "error creating authentication provider", err)
	}

	adapter, err := msgraphsdk.NewGraphRequestAdapter(auth)
	if err != nil {
		return nil, errors.NewConfigError(ServiceName, "error creating request adapter", err)
	}

	return NewWithAdapter(adapter, opts...), nil
}

// NewWithAdapter builds a client on top of an existing request adapter.
func NewWithAdapter(adapter abstractions.RequestAdapter, opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	// The service client captures the base URL when it is constructed.
	adapter.SetBaseUrl(strings.TrimSuffix(o.baseURL, "/"))

	return &Client{
		graph:          msgraphsdk.NewGraphServiceClient(adapter),
		limiter:        NewRateLimiter(o.rateLimit),
		pageSize:       o.pageSize,
		requestTimeout: o.requestTimeout,
	}
}

// Directory returns the organization contact source.
func (c *Client) Directory() *DirectorySource {
	return &DirectorySource{client: c}
}

// Contacts returns the mailbox contact store.
func (c *Client) Contacts() *ContactStore {
	return &ContactStore{client: c}
}

// Limiter returns the shared rate limiter.
func (c *Client) Limiter() *RateLimiter {
	return c.limiter
}

// call waits for the rate limiter, runs fn, and maps any failure to a typed
// error. A throttled response pushes the limiter into backoff.
func (c *Client) call(ctx context.Context, endpoint string, fn func(ctx context.Context) error) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	logging.FromContext(ctx).Debug().
		Str("endpoint", endpoint).
		Msg("Graph request")

	reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	err := fn(reqCtx)
	if err == nil {
		return nil
	}

	err = transformError(err, endpoint)
	if errors.IsRateLimited(err) {
		wait := retryAfter(err)
		c.limiter.RecordRateLimitError(wait)
		logging.FromContext(ctx).Warn().
			Str("endpoint", endpoint).
			Dur("retry_after", wait).
			Msg("Graph throttled the request")
	}
	return err
}
