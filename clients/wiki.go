package clients

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/agrivista/api-go/types"
)

type WikiProvider interface {
	Summary(ctx context.Context, title string) (*types.WikiSummary, error)
}

// WikiClient reads page summaries from the Wikipedia REST API.
type WikiClient struct {
	client *resty.Client
}

type wikiSummaryResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Extract     string `json:"extract"`
	Thumbnail   struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	OriginalImage struct {
		Source string `json:"source"`
	} `json:"originalimage"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

func NewWikiClient(baseURL string, timeout time.Duration) *WikiClient {
	return &WikiClient{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("User-Agent", "AgriVista/1.0 (crop encyclopedia thumbnails)"),
	}
}

func (w *WikiClient) Summary(ctx context.Context, title string) (*types.WikiSummary, error) {
	title = strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
	result := &wikiSummaryResponse{}
	resp, err := w.client.R().
		SetContext(ctx).
		SetPathParam("title", title).
		SetResult(result).
		Get("/page/summary/{title}")
	if err != nil {
		return nil, errors.Wrap(err, "wikipedia summary")
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, errors.Wrapf(ErrNotFound, "wikipedia page %q", title)
	}
	if resp.IsError() {
		return nil, &StatusError{Service: "wikipedia", Code: resp.StatusCode(), Body: resp.String()}
	}

	thumb := result.Thumbnail.Source
	if thumb == "" {
		thumb = result.OriginalImage.Source
	}
	return &types.WikiSummary{
		Title:       result.Title,
		Description: result.Description,
		Extract:     result.Extract,
		Thumbnail:   thumb,
		PageURL:     result.ContentURLs.Desktop.Page,
	}, nil
}
