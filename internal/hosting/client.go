// Package hosting uploads files to a Cloudinary-compatible hosting API.
package hosting

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/and161185/studysync/internal/config"
	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/model"
)

// Client talks to the hosting upload endpoint.
type Client struct {
	http *resty.Client
	cfg  config.HostingConfig
	log  *zap.Logger
	now  func() time.Time
}

// New creates a hosting client.
func New(cfg config.HostingConfig, log *zap.Logger) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)
	return &Client{http: c, cfg: cfg, log: log.With(zap.String("component", "hosting")), now: time.Now}
}

type uploadResponse struct {
	SecureURL    string `json:"secure_url"`
	PublicID     string `json:"public_id"`
	Bytes        int64  `json:"bytes"`
	ResourceType string `json:"resource_type"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload posts the file as multipart form data. Any failure is an *errs.UploadError.
func (c *Client) Upload(ctx context.Context, up model.Upload) (model.Hosted, error) {
	var (
		ok  uploadResponse
		bad errorResponse
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", up.Name, bytes.NewReader(up.Data)).
		SetFormData(c.formParams()).
		SetResult(&ok).
		SetError(&bad).
		Post(fmt.Sprintf("/v1_1/%s/auto/upload", c.cfg.CloudName))
	if err != nil {
		c.log.Warn("upload request failed", zap.String("file", up.Name), zap.Error(err))
		return model.Hosted{}, &errs.UploadError{Message: err.Error()}
	}
	if resp.IsError() {
		msg := bad.Error.Message
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		c.log.Warn("upload rejected", zap.String("file", up.Name), zap.Int("status", resp.StatusCode()), zap.String("message", msg))
		return model.Hosted{}, &errs.UploadError{Status: resp.StatusCode(), Message: msg}
	}
	if ok.SecureURL == "" {
		return model.Hosted{}, &errs.UploadError{Status: resp.StatusCode(), Message: "response without secure_url"}
	}
	return model.Hosted{URL: ok.SecureURL, PublicID: ok.PublicID, Bytes: ok.Bytes, ResourceType: ok.ResourceType}, nil
}

// formParams returns the unsigned preset or a signed parameter set.
func (c *Client) formParams() map[string]string {
	if !c.cfg.Signed() {
		return map[string]string{"upload_preset": c.cfg.UploadPreset}
	}
	params := map[string]string{"timestamp": strconv.FormatInt(c.now().Unix(), 10)}
	if c.cfg.UploadPreset != "" {
		params["upload_preset"] = c.cfg.UploadPreset
	}
	params["signature"] = sign(params, c.cfg.APISecret)
	params["api_key"] = c.cfg.APIKey
	return params
}

// sign computes the hex SHA-1 over the sorted "k=v" pairs joined by "&" followed by the secret.
func sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
