package accesslink

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	apperrors "github.com/jrsteele09/polar-health-link/internal/errors"
	"github.com/jrsteele09/polar-health-link/internal/metrics"
	"github.com/jrsteele09/polar-health-link/oauthmodel"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Kind selects a transactional collection.
type Kind string

const (
	KindActivity Kind = "activity"
	KindExercise Kind = "exercise"
)

func (k Kind) listingPath(userID string) (string, error) {
	switch k {
	case KindActivity, KindExercise:
		return "/users/" + url.PathEscape(userID) + "/" + string(k) + "-transactions", nil
	}
	return "", fmt.Errorf("unknown collection kind %q", k)
}

func (k Kind) items(list oauthmodel.TransactionList) []oauthmodel.TransactionItem {
	if k == KindActivity {
		return list.ActivityLog
	}
	return list.Exercises
}

// FetchCollection lists the transaction item URLs for kind and fetches every item concurrently.
// Items whose fetch fails are left out; only a failed listing is an error. Records come back
// in listing order.
func (c *Client) FetchCollection(ctx context.Context, kind Kind, userID string) ([]json.RawMessage, error) {
	path, err := kind.listingPath(userID)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[accesslink FetchCollection]")
	}
	client, err := c.userClient(userID)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[accesslink FetchCollection]")
	}

	items, err := c.listTransactions(ctx, client, kind, path)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[accesslink FetchCollection] %s", kind)
	}
	log.Ctx(ctx).Info().Str("user", userID).Str("kind", string(kind)).Int("transactions", len(items)).Msg("transactions listed")

	results := make([]json.RawMessage, len(items))
	var g errgroup.Group
	for i, item := range items {
		g.Go(func() error {
			results[i] = fetchItem(ctx, client, kind, item.URL)
			return nil
		})
	}
	_ = g.Wait()

	records := make([]json.RawMessage, 0, len(results))
	for _, r := range results {
		if r != nil {
			records = append(records, r)
		}
	}
	return records, nil
}

func (c *Client) listTransactions(ctx context.Context, client *http.Client, kind Kind, path string) ([]oauthmodel.TransactionItem, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	status, body, err := do(ctx, client, "list_"+string(kind), req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrTransactionListFailed, err)
	}
	if !isSuccess(status) {
		return nil, apperrors.NewStatusError(apperrors.ErrTransactionListFailed, status, string(body))
	}
	// No Content means there is nothing new for the user
	if status == http.StatusNoContent || len(body) == 0 {
		return nil, nil
	}

	var list oauthmodel.TransactionList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: decode listing: %w", apperrors.ErrTransactionListFailed, err)
	}
	return kind.items(list), nil
}

// fetchItem returns the item body, or nil when it cannot be used.
func fetchItem(ctx context.Context, client *http.Client, kind Kind, itemURL string) json.RawMessage {
	logger := log.Ctx(ctx).With().Str("kind", string(kind)).Str("url", itemURL).Logger()

	req, err := http.NewRequest(http.MethodGet, itemURL, nil)
	if err != nil {
		logger.Debug().Err(err).Msg("dropping transaction item")
		metrics.RecordDroppedItem(string(kind))
		return nil
	}

	status, body, err := do(ctx, client, "fetch_"+string(kind), req)
	switch {
	case err != nil:
		logger.Debug().Err(err).Msg("dropping transaction item")
	case !isSuccess(status):
		logger.Debug().Int("status", status).Msg("dropping transaction item")
	case !json.Valid(body):
		logger.Debug().Msg("dropping transaction item with invalid JSON")
	default:
		return json.RawMessage(body)
	}
	metrics.RecordDroppedItem(string(kind))
	return nil
}

// FetchActivityLogs fetches and decodes the activity collection.
func (c *Client) FetchActivityLogs(ctx context.Context, userID string) ([]oauthmodel.ActivityLog, error) {
	return fetchDecoded[oauthmodel.ActivityLog](ctx, c, KindActivity, userID)
}

// FetchExercises fetches and decodes the exercise collection.
func (c *Client) FetchExercises(ctx context.Context, userID string) ([]oauthmodel.Exercise, error) {
	return fetchDecoded[oauthmodel.Exercise](ctx, c, KindExercise, userID)
}

// fetchDecoded drops records that do not decode, the same way failed fetches are dropped.
func fetchDecoded[T any](ctx context.Context, c *Client, kind Kind, userID string) ([]T, error) {
	raw, err := c.FetchCollection(ctx, kind, userID)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(raw))
	for _, r := range raw {
		var record T
		if err := json.Unmarshal(r, &record); err != nil {
			log.Ctx(ctx).Debug().Err(err).Str("kind", string(kind)).Msg("dropping undecodable record")
			metrics.RecordDroppedItem(string(kind))
			continue
		}
		out = append(out, record)
	}
	return out, nil
}
