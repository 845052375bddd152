// Package bible fetches a verse of the day from a public Bible API. The
// integration is a pass-through collaborator: no retries, no persistence.
package bible

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Verse is one displayable scripture verse.
type Verse struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

type apiResponse struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

// A short rotation of well-known references, one per day of the week.
var dailyReferences = []string{
	"john 3:16",
	"psalm 23:1",
	"philippians 4:6",
	"proverbs 3:5",
	"isaiah 41:10",
	"romans 8:28",
	"matthew 6:34",
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// VerseOfDay fetches the verse assigned to the given day.
func (c *Client) VerseOfDay(ctx context.Context, day time.Time) (Verse, error) {
	ref := dailyReferences[int(day.Weekday())%len(dailyReferences)]
	return c.Lookup(ctx, ref)
}

// Lookup fetches a single verse by reference, e.g. "john 3:16".
func (c *Client) Lookup(ctx context.Context, reference string) (Verse, error) {
	u := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(reference))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Verse{}, fmt.Errorf("build verse request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Verse{}, fmt.Errorf("fetch verse: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Verse{}, fmt.Errorf("verse API returned status %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Verse{}, fmt.Errorf("decode verse response: %w", err)
	}

	return Verse{
		Reference: body.Reference,
		Text:      strings.TrimSpace(body.Text),
	}, nil
}
