package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
)

// SystemHealth returns the admin health overview.
func (c *Client) SystemHealth(ctx context.Context) (*SystemHealth, error) {
	var resp SystemHealth
	if err := c.get(ctx, "/api/admin/system-health", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reports lists uploaded research reports.
func (c *Client) Reports(ctx context.Context) ([]Report, error) {
	var resp ReportsResponse
	if err := c.get(ctx, "/api/admin/reports", &resp); err != nil {
		return nil, err
	}
	return resp.Reports, nil
}

// UploadReport uploads a research report as multipart field "report".
// Client-side validation of the filename is the caller's job (internal/forms);
// the server remains authoritative.
func (c *Client) UploadReport(ctx context.Context, filename string, r io.Reader) (*UploadReportResult, error) {
	var resp UploadReportResult
	err := c.postMultipart(ctx, "/api/admin/reports/upload", func(w *multipart.Writer) error {
		part, err := w.CreateFormFile("report", filepath.Base(filename))
		if err != nil {
			return err
		}
		_, err = io.Copy(part, r)
		return err
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Sources lists configured news sources.
func (c *Client) Sources(ctx context.Context) ([]Source, error) {
	var resp SourcesResponse
	if err := c.get(ctx, "/api/admin/sources", &resp); err != nil {
		return nil, err
	}
	return resp.Sources, nil
}

// CreateSource registers a new news source.
func (c *Client) CreateSource(ctx context.Context, src Source) (*Source, error) {
	var resp Source
	if err := c.postJSON(ctx, "/api/admin/sources", src, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateSource patches an existing source.
func (c *Client) UpdateSource(ctx context.Context, id int64, src Source) (*Source, error) {
	var resp Source
	if err := c.patchJSON(ctx, fmt.Sprintf("/api/admin/sources/%d", id), src, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteSource removes a source.
func (c *Client) DeleteSource(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/admin/sources/%d", id))
}

// FetchSource triggers an on-demand fetch of one source.
func (c *Client) FetchSource(ctx context.Context, id int64) (*FetchResult, error) {
	var resp FetchResult
	if err := c.postJSON(ctx, fmt.Sprintf("/api/admin/sources/%d/fetch", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ManualSubmission is the input of SubmitManualSource. File may be nil.
type ManualSubmission struct {
	Text       string
	SourceName string
	Filename   string
	File       io.Reader
}

// SubmitManualSource posts free-form text (and an optional file) for
// symbol-matching and sentiment analysis.
func (c *Client) SubmitManualSource(ctx context.Context, sub ManualSubmission) (*ManualSourceResult, error) {
	var resp ManualSourceResult
	err := c.postMultipart(ctx, "/api/admin/sources/manual", func(w *multipart.Writer) error {
		if err := w.WriteField("text", sub.Text); err != nil {
			return err
		}
		if err := w.WriteField("source_name", sub.SourceName); err != nil {
			return err
		}
		if sub.File != nil {
			part, err := w.CreateFormFile("file", filepath.Base(sub.Filename))
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, sub.File); err != nil {
				return err
			}
		}
		return nil
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
