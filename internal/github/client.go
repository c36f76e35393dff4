package github

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL        = "https://api.github.com"
	acceptHeader  = "application/vnd.github+json"
	apiVersion    = "2022-11-28"
	userAgent     = "octosourcer (github.com/octosourcer/octosourcer)"
	searchPerPage = 100
)

// Client is a minimal typed GitHub REST client covering the candidate-source
// contract: user search, profile fetch and top-repository fetch. It never
// interprets the data it returns; scoring happens downstream.
type Client struct {
	// ctx is used for outgoing http requests only.
	ctx        context.Context
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	// FetchDelay paces successive per-candidate fetches to stay clear of
	// GitHub's secondary rate limits. Zero disables pacing.
	FetchDelay time.Duration
}

// New creates a GitHub client authenticated with the given token.
func New(ctx context.Context, token string, logger *zap.Logger) *Client {
	return &Client{
		ctx:    ctx,
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}
