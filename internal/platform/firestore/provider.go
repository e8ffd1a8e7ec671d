// Package firestore owns the Cloud Firestore connection used as the site's
// content store, plus the collection helpers the content layer and the seeder
// read and write through.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/bandipurcablecar/website-sub001/internal/platform/config"
)

const (
	defaultDialTimeout = 10 * time.Second
	envEmulatorHost    = "FIRESTORE_EMULATOR_HOST"
)

var (
	// ErrProviderClosed is returned once Close has been called.
	ErrProviderClosed = errors.New("firestore: provider is closed")
	// ErrProjectMissing is returned when no project is configured.
	ErrProjectMissing = errors.New("firestore: project id is required")
)

// Provider dials the content database on first use and hands the same client
// to every collection.
type Provider struct {
	projectID   string
	databaseID  string
	emulator    string
	credentials string
	dialTimeout time.Duration
	clientOpts  []option.ClientOption

	mu     sync.Mutex
	client *firestore.Client
	closed bool
}

// ProviderOption customises the Provider behaviour.
type ProviderOption func(*Provider)

// WithDialTimeout bounds client creation.
func WithDialTimeout(timeout time.Duration) ProviderOption {
	return func(p *Provider) {
		if timeout > 0 {
			p.dialTimeout = timeout
		}
	}
}

// WithClientOptions appends client options applied during initialisation.
func WithClientOptions(opts ...option.ClientOption) ProviderOption {
	return func(p *Provider) {
		p.clientOpts = append(p.clientOpts, opts...)
	}
}

// NewProvider captures the connection settings. No network call is made until
// Client is first called. An empty DatabaseID selects the default database and
// an empty EmulatorHost falls back to FIRESTORE_EMULATOR_HOST.
func NewProvider(cfg config.FirestoreConfig, opts ...ProviderOption) *Provider {
	provider := &Provider{
		projectID:   strings.TrimSpace(cfg.ProjectID),
		databaseID:  strings.TrimSpace(cfg.DatabaseID),
		emulator:    strings.TrimSpace(cfg.EmulatorHost),
		credentials: strings.TrimSpace(cfg.CredentialsFile),
		dialTimeout: defaultDialTimeout,
	}
	if provider.databaseID == "" {
		provider.databaseID = firestore.DefaultDatabaseID
	}
	if provider.emulator == "" {
		provider.emulator = strings.TrimSpace(os.Getenv(envEmulatorHost))
	}
	for _, opt := range opts {
		if opt != nil {
			opt(provider)
		}
	}
	return provider
}

// Target describes the database the provider connects to, for logs.
func (p *Provider) Target() string {
	target := "projects/" + p.projectID + "/databases/" + p.databaseID
	if p.emulator != "" {
		target += " (emulator " + p.emulator + ")"
	}
	return target
}

// Client returns the shared client, dialling it on first use.
func (p *Provider) Client(ctx context.Context) (*firestore.Client, error) {
	if p == nil {
		return nil, errors.New("firestore: provider is nil")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrProviderClosed
	}
	if p.client != nil {
		return p.client, nil
	}
	client, err := p.dial(ctx)
	if err != nil {
		return nil, err
	}
	p.client = client
	return client, nil
}

func (p *Provider) dial(ctx context.Context) (*firestore.Client, error) {
	if p.projectID == "" {
		return nil, ErrProjectMissing
	}
	if p.dialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.dialTimeout)
		defer cancel()
	}

	client, err := firestore.NewClientWithDatabase(ctx, p.projectID, p.databaseID, p.options()...)
	if err != nil {
		return nil, fmt.Errorf("firestore: connect %s: %w", p.Target(), err)
	}
	return client, nil
}

func (p *Provider) options() []option.ClientOption {
	opts := append([]option.ClientOption(nil), p.clientOpts...)
	switch {
	case p.emulator != "":
		opts = append(opts,
			option.WithoutAuthentication(),
			option.WithEndpoint(p.emulator),
			option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
	case p.credentials != "":
		opts = append(opts, option.WithCredentialsFile(p.credentials))
	}
	return opts
}

// Close releases the client. The Provider cannot be reused afterwards.
func (p *Provider) Close(ctx context.Context) error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	client := p.client
	p.client = nil
	p.mu.Unlock()

	if client == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- client.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
