package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/yuya-takeyama/diffcopy/pkg/compare"
	"github.com/yuya-takeyama/diffcopy/pkg/s3client"
)

const defaultContentType = "application/json"

const (
	ActionNew      = "new"
	ActionModified = "modified"
	ActionDelete   = "delete"
)

// Report is the JSON document describing one comparison
type Report struct {
	Source      string         `json:"source"`
	Destination string         `json:"destination"`
	Strategy    string         `json:"strategy"`
	Prune       bool           `json:"prune"`
	Files       []File         `json:"files"`
	Summary     compare.Counts `json:"summary"`
}

type File struct {
	Action       string `json:"action"` // "new", "modified", "delete"
	RelativePath string `json:"relativePath"`
	Source       string `json:"source,omitempty"`
	Target       string `json:"target"`
}

// New builds a report; targets of new and modified files are the paths they would be copied to.
func New(sourceRoot, destRoot, strategy string, prune bool, result *compare.Result) *Report {
	sourceRoot = getAbsolutePath(sourceRoot)
	destRoot = getAbsolutePath(destRoot)

	r := &Report{
		Source:      sourceRoot,
		Destination: destRoot,
		Strategy:    strategy,
		Prune:       prune,
		Files:       []File{},
		Summary:     result.Counts(),
	}

	for _, p := range result.NewFiles() {
		r.Files = append(r.Files, copyFile(ActionNew, sourceRoot, destRoot, p))
	}
	for _, p := range result.ModifiedFiles() {
		r.Files = append(r.Files, copyFile(ActionModified, sourceRoot, destRoot, p))
	}
	for _, p := range result.NotInSource() {
		r.Files = append(r.Files, File{
			Action:       ActionDelete,
			RelativePath: relativePath(destRoot, p),
			Target:       p,
		})
	}

	return r
}

func copyFile(action, sourceRoot, destRoot, sourcePath string) File {
	rel := relativePath(sourceRoot, sourcePath)
	return File{
		Action:       action,
		RelativePath: rel,
		Source:       sourcePath,
		Target:       filepath.Join(destRoot, filepath.FromSlash(rel)),
	}
}

func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func getAbsolutePath(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path // fallback to original path
	}
	return absPath
}

func (r *Report) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Writer stores reports on the local disk or, for s3:// destinations, in S3.
type Writer struct {
	client s3client.Client
}

// NewWriter returns a Writer; client may be nil when no S3 destination is used.
func NewWriter(client s3client.Client) *Writer {
	return &Writer{client: client}
}

func (w *Writer) Write(ctx context.Context, dest string, r *Report) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}

	if !s3client.IsS3URI(dest) {
		if err := os.WriteFile(dest, data, 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		return nil
	}

	bucket, key, err := s3client.ParseS3URI(dest)
	if err != nil {
		return fmt.Errorf("invalid S3 URI: %w", err)
	}
	if key == "" {
		return fmt.Errorf("invalid S3 URI %s: object key is required", dest)
	}
	if w.client == nil {
		return fmt.Errorf("no S3 client configured for %s", dest)
	}

	err = w.client.PutObject(ctx, &s3client.PutObjectRequest{
		Bucket:      bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		Size:        int64(len(data)),
		ContentType: guessContentType(key),
	})
	if err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}
	return nil
}

// guessContentType picks the report's content type from the key's extension.
func guessContentType(key string) string {
	if contentType := mime.TypeByExtension(filepath.Ext(key)); contentType != "" {
		return contentType
	}
	return defaultContentType
}
