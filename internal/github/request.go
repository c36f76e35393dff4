package github

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// searchResponse is the envelope GitHub wraps search results in.
type searchResponse struct {
	TotalCount        int    `json:"total_count"`
	IncompleteResults bool   `json:"incomplete_results"`
	Items             []Item `json:"items"`
}

// Item is a single loosely-typed API object; callers decode it into typed
// records at the boundary.
type Item map[string]any

// searchItems makes paginated GET requests against a search endpoint and
// returns the items from up to maxPages pages.
func (c *Client) searchItems(path string, q url.Values, maxPages int) ([]Item, error) {
	if maxPages <= 0 {
		maxPages = 1
	}

	var items []Item
	for page := 1; page <= maxPages; page++ {
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(searchPerPage))

		var response searchResponse
		if err := c.getJSON(path, q, &response); err != nil {
			return nil, err
		}

		items = append(items, response.Items...)

		c.logger.Debug("got search page from GitHub",
			zap.Int("page", page),
			zap.Int("items", len(response.Items)),
			zap.Int("total_count", response.TotalCount),
		)

		if len(items) >= response.TotalCount || len(response.Items) == 0 {
			break
		}
	}

	return items, nil
}

// getJSON performs an authenticated GET request and decodes the JSON body
// into target.
func (c *Client) getJSON(path string, q url.Values, target any) error {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, c.APIURL+path, nil)
	if err != nil {
		return err
	}

	c.setHeaders(req)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("bad status %s for %s: %s", resp.Status, path, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", c.UserAgent)
}
