// Package report prints inspection results and publishes them to S3.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"golang.org/x/exp/maps"

	"github.com/bstardust/photo-geometa/internal/logger"
	"github.com/bstardust/photo-geometa/internal/metadata"
	"github.com/bstardust/photo-geometa/pkg/common"
	"github.com/bstardust/photo-geometa/pkg/s3client"
)

// Entry is the inspection result for one image
type Entry struct {
	Input    string             `json:"input"`
	Size     int64              `json:"size"`
	Metadata *metadata.Metadata `json:"metadata,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// Key returns the object key of the entry's JSON report.
func (e Entry) Key() string {
	name := ""
	if e.Metadata != nil {
		name = e.Metadata.Path
	}
	return path.Join(e.Input, name) + ".json"
}

// Printer writes entries as text blocks or JSON lines. It is safe for
// concurrent use.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	asJSON bool
}

// NewPrinter creates a printer writing to w
func NewPrinter(w io.Writer, asJSON bool) *Printer {
	return &Printer{w: w, asJSON: asJSON}
}

// Print writes a single entry
func (p *Printer) Print(e Entry) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.asJSON {
		return json.NewEncoder(p.w).Encode(e)
	}

	var b strings.Builder
	name := e.Input
	if e.Metadata != nil {
		name = path.Join(e.Input, e.Metadata.Path)
	}
	fmt.Fprintf(&b, "%s (%s)\n", name, humanize.Bytes(uint64(e.Size)))
	if e.Error != "" {
		fmt.Fprintf(&b, "  error: %s\n", e.Error)
	}
	if e.Metadata != nil {
		fields := e.Metadata.ToMap()
		delete(fields, "path")
		keys := maps.Keys(fields)
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s: %s\n", k, fields[k])
		}
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

// Uploader publishes entries as JSON objects
type Uploader struct {
	client       s3client.S3Interface
	skipExisting bool
	retry        RetryConfig
}

// NewUploader creates an uploader on top of an S3 client
func NewUploader(client s3client.S3Interface, skipExisting bool) *Uploader {
	return &Uploader{
		client:       client,
		skipExisting: skipExisting,
		retry:        DefaultRetryConfig(),
	}
}

// SetRetry replaces the retry policy used for uploads
func (u *Uploader) SetRetry(rc RetryConfig) {
	u.retry = rc
}

// Upload stores e under its key. It reports whether the object was written.
func (u *Uploader) Upload(ctx context.Context, e Entry) (bool, error) {
	key := e.Key()

	if u.skipExisting {
		exists, err := u.client.ObjectExists(ctx, key)
		if err != nil {
			return false, common.NewReportError(fmt.Sprintf("checking %s: %v", key, err))
		}
		if exists {
			logger.Debug("Report %s already exists in %s", key, u.client.GetBucketName())
			return false, nil
		}
	}

	body, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return false, common.NewReportError(fmt.Sprintf("encoding %s: %v", key, err))
	}

	var userMetadata map[string]string
	if e.Metadata != nil {
		userMetadata = asciiOnly(e.Metadata.ToMap())
	}

	err = retryWithBackoff(ctx, "upload of "+key, func() error {
		return u.client.UploadFile(ctx, bytes.NewReader(body), key, int64(len(body)), userMetadata, "application/json")
	}, u.retry)
	if err != nil {
		return false, common.NewReportError(fmt.Sprintf("uploading %s: %v", key, err))
	}
	return true, nil
}

// asciiOnly drops values S3 user metadata headers cannot carry.
func asciiOnly(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		ok := true
		for i := 0; i < len(v); i++ {
			if v[i] < 0x20 || v[i] > 0x7e {
				ok = false
				break
			}
		}
		if ok {
			out[k] = v
		}
	}
	return out
}
