package gitea

import (
	"context"
	"fmt"
	"net/http"

	sdk "code.gitea.io/sdk/gitea"

	"github.com/archmagece/wald/pkg/provider"
	"github.com/archmagece/wald/pkg/ratelimit"
)

// Provider implements the provider.Provider interface for Gitea
type Provider struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	rateLimiter *ratelimit.Limiter
}

// NewProvider creates a new Gitea provider
func NewProvider(token, baseURL string) *Provider {
	return &Provider{
		baseURL:     baseURL,
		token:       token,
		httpClient:  &http.Client{},
		rateLimiter: ratelimit.NewLimiter(1000), // Gitea default estimate
	}
}

func (p *Provider) client() (*sdk.Client, error) {
	opts := []sdk.ClientOption{sdk.SetHTTPClient(p.httpClient)}
	if p.token != "" {
		opts = append(opts, sdk.SetToken(p.token))
	}
	return sdk.NewClient(p.baseURL, opts...)
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "gitea"
}

// SetToken sets the authentication token
func (p *Provider) SetToken(token string) error {
	p.token = token
	return nil
}

// ValidateToken reports whether a token is set; it does not contact
// the server.
func (p *Provider) ValidateToken(ctx context.Context) (bool, error) {
	// TODO: Implement token validation
	return p.token != "", nil
}

// ListOrganizationRepos is not implemented for Gitea and always
// returns an error.
func (p *Provider) ListOrganizationRepos(ctx context.Context, org string) ([]*provider.Repository, error) {
	// TODO: Implement using Gitea API
	// Using code.gitea.io/sdk/gitea package
	return nil, fmt.Errorf("gitea provider not implemented yet")
}

// ListUserRepos is not implemented for Gitea and always returns an
// error.
func (p *Provider) ListUserRepos(ctx context.Context, user string) ([]*provider.Repository, error) {
	// TODO: Implement using Gitea API
	return nil, fmt.Errorf("gitea provider not implemented yet")
}

// GetRepository gets a single repository from Gitea
func (p *Provider) GetRepository(ctx context.Context, owner, repo string) (*provider.Repository, error) {
	client, err := p.client()
	if err != nil {
		return nil, fmt.Errorf("build gitea client: %w", err)
	}

	giteaRepo, _, err := client.GetRepo(owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get repo %s/%s: %w", owner, repo, err)
	}

	return convertGiteaRepo(giteaRepo), nil
}

func convertGiteaRepo(r *sdk.Repository) *provider.Repository {
	converted := &provider.Repository{
		Name:          r.Name,
		FullName:      r.FullName,
		CloneURL:      r.CloneURL,
		SSHURL:        r.SSHURL,
		HTMLURL:       r.HTMLURL,
		Description:   r.Description,
		DefaultBranch: r.DefaultBranch,
		Private:       r.Private,
		Archived:      r.Archived,
		Fork:          r.Fork,
		Size:          int(r.Size),
	}
	if r.Parent != nil {
		converted.ForkParent = r.Parent.FullName
	}
	return converted
}

// ListOrganizations is not implemented for Gitea and always returns
// an error.
func (p *Provider) ListOrganizations(ctx context.Context) ([]*provider.Organization, error) {
	// TODO: Implement using Gitea API
	return nil, fmt.Errorf("gitea provider not implemented yet")
}

// GetRateLimit returns current rate limit status
func (p *Provider) GetRateLimit(ctx context.Context) (*provider.RateLimit, error) {
	remaining, limit, resetTime := p.rateLimiter.Status()
	return &provider.RateLimit{
		Limit:     limit,
		Remaining: remaining,
		Reset:     resetTime,
		Used:      limit - remaining,
	}, nil
}
