// Package scoreclient posts quiz scores and session summaries to a scoreboard
// service. Feedback to a UI goes through the caller-supplied Notifier; there
// is no global notification state.
package scoreclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/qcm-hub/scoreboard/internal/score"
)

// Notifier receives user-facing feedback ("success"/"error", message).
// A nil Notifier silences the client.
type Notifier func(level, message string)

type Client struct {
	base   string
	http   *http.Client
	notify Notifier
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	Notify  Notifier
}

func New(cfg Config) *Client {
	h := &http.Client{Timeout: 10 * time.Second}
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}
	return &Client{base: cfg.BaseURL, http: h, notify: cfg.Notify}
}

// SubmitScore posts one score to POST /rest/scores.
func (c *Client) SubmitScore(ctx context.Context, req score.SubmitRequest) (score.Receipt, error) {
	var out struct {
		OK bool `json:"ok"`
		score.Receipt
		Error string `json:"error"`
	}
	if err := c.post(ctx, "/rest/scores", req, http.StatusOK, &out); err != nil {
		c.emit("error", "score non enregistré: "+err.Error())
		return score.Receipt{}, err
	}
	c.emit("success", fmt.Sprintf("score enregistré: %s %d/%d", out.ThemeCode, out.Score, out.MaxScore))
	return out.Receipt, nil
}

// RecordSession posts one quiz-session summary to POST /public/qcm.
func (c *Client) RecordSession(ctx context.Context, fields map[string]any) error {
	if err := c.post(ctx, "/public/qcm", fields, http.StatusCreated, nil); err != nil {
		c.emit("error", "session non enregistrée: "+err.Error())
		return err
	}
	c.emit("success", "session enregistrée")
	return nil
}

func (c *Client) post(ctx context.Context, path string, body any, wantStatus int, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != wantStatus {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&e)
		if e.Error != "" {
			return fmt.Errorf("%s: %s", res.Status, e.Error)
		}
		return fmt.Errorf("unexpected status %s", res.Status)
	}
	if out != nil {
		return json.NewDecoder(res.Body).Decode(out)
	}
	return nil
}

func (c *Client) emit(level, message string) {
	if c.notify != nil {
		c.notify(level, message)
	}
}
