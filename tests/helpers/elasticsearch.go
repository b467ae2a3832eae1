// Package helpers provides shared utilities for integration tests.
package helpers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jonesrussell/newsdigest/internal/config"
)

const (
	elasticsearchImage = "docker.elastic.co/elasticsearch/elasticsearch:8.11.0"

	// ElasticsearchUsername is the superuser the test container accepts.
	ElasticsearchUsername = "elastic"
	// ElasticsearchPassword is the password configured on the container.
	ElasticsearchPassword = "changeme"

	startupTimeout = 60 * time.Second
	probeInterval  = time.Second
	probeAttempts  = 30
)

// ElasticsearchContainer is a disposable Elasticsearch instance for
// dataset integration tests.
type ElasticsearchContainer struct {
	container testcontainers.Container

	// Address is the HTTP endpoint of the container.
	Address string
}

// StartElasticsearch starts an Elasticsearch container and waits until
// its cluster answers health checks. Stop the returned container when
// the test finishes.
func StartElasticsearch(ctx context.Context) (*ElasticsearchContainer, error) {
	container, err := elasticsearch.Run(
		ctx,
		elasticsearchImage,
		elasticsearch.WithPassword(ElasticsearchPassword),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/").WithPort("9200/tcp").WithStartupTimeout(startupTimeout),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start Elasticsearch container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "9200")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	address := "http://" + net.JoinHostPort(host, port.Port())

	if err := waitForCluster(ctx, address); err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("elasticsearch did not become ready: %w", err)
	}

	return &ElasticsearchContainer{
		container: container,
		Address:   address,
	}, nil
}

// Stop terminates the container.
func (e *ElasticsearchContainer) Stop(ctx context.Context) error {
	if e.container == nil {
		return nil
	}
	return e.container.Terminate(ctx)
}

// DatasetConfig returns Elasticsearch sink configuration pointing at the
// container, writing to the given index.
func (e *ElasticsearchContainer) DatasetConfig(index string) *config.ElasticsearchConfig {
	return &config.ElasticsearchConfig{
		Addresses: []string{e.Address},
		Username:  ElasticsearchUsername,
		Password:  ElasticsearchPassword,
		Index:     index,
	}
}

// waitForCluster polls the cluster health endpoint until it answers.
func waitForCluster(ctx context.Context, address string) error {
	client := &http.Client{Timeout: 5 * time.Second}

	var lastErr error
	for range probeAttempts {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodGet, address+"/_cluster/health", http.NoBody)
		if err != nil {
			return fmt.Errorf("failed to create health request: %w", err)
		}
		req.SetBasicAuth(ElasticsearchUsername, ElasticsearchPassword)

		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
			lastErr = fmt.Errorf("health check returned status %d", resp.StatusCode)
		} else {
			lastErr = err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(probeInterval):
		}
	}

	return fmt.Errorf("cluster not healthy after %d attempts: %w", probeAttempts, lastErr)
}
