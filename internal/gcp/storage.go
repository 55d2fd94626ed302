package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/googleapi"
)

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// ParseGCSUri splits a gs://bucket/object URI.
func ParseGCSUri(uri string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(uri, "gs://")
	if !ok {
		return "", "", fmt.Errorf("not a gs:// URI: %q", uri)
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("GCS URI %q must name a bucket and an object", uri)
	}
	return bucket, object, nil
}

// GCSUri formats a gs:// URI.
func GCSUri(bucket, object string) string {
	return fmt.Sprintf("gs://%s/%s", bucket, object)
}

// SaveToGCSAtomically writes content to a GCS object only if it doesn't already exist.
// It's a shared utility for all services.
func SaveToGCSAtomically(ctx context.Context, bucket *storage.BucketHandle, objectName string, content []byte) error {
	writer := bucket.Object(objectName).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)

	if _, err := writer.Write(content); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write to GCS: %w", err)
	}

	if err := writer.Close(); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
			slog.Info("Object already exists. Skipping.", "gcsObject", objectName)
			return nil // Not a failure in an idempotent workflow.
		}
		return fmt.Errorf("failed to finalize GCS write: %w", err)
	}
	return nil
}

// DownloadObject streams a GCS object into a local file.
func DownloadObject(ctx context.Context, client *storage.Client, bucket, object, destPath string) error {
	gcsReader, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("failed to get GCS object reader for gs://%s/%s: %w", bucket, object, err)
	}
	defer gcsReader.Close()
	localFile, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file at %s: %w", destPath, err)
	}
	defer localFile.Close()
	if _, err := io.Copy(localFile, gcsReader); err != nil {
		return fmt.Errorf("failed to copy GCS object to local file: %w", err)
	}
	return nil
}

// ReadObject reads a whole GCS object into memory.
func ReadObject(ctx context.Context, client *storage.Client, bucket, object string) ([]byte, error) {
	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get GCS object reader for gs://%s/%s: %w", bucket, object, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read gs://%s/%s: %w", bucket, object, err)
	}
	return data, nil
}

// UploadFile copies a local file to a GCS object, retrying with exponential backoff.
func UploadFile(ctx context.Context, client *storage.Client, bucket, localPath, destObject string) error {
	const maxRetries = 4
	var backoff = 1 * time.Second
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		err := func() error {
			localFileReader, err := os.Open(localPath)
			if err != nil {
				return fmt.Errorf("could not open local file %s: %w", localPath, err)
			}
			defer localFileReader.Close()

			writeCtx, cancel := context.WithTimeout(ctx, time.Second*50)
			defer cancel()

			gcsWriter := client.Bucket(bucket).Object(destObject).NewWriter(writeCtx)

			if _, err := io.Copy(gcsWriter, localFileReader); err != nil {
				_ = gcsWriter.Close()
				return fmt.Errorf("io.Copy to GCS failed: %w", err)
			}

			if err := gcsWriter.Close(); err != nil {
				return fmt.Errorf("failed to close GCS writer (finalize upload): %w", err)
			}
			return nil
		}()

		if err == nil {
			return nil
		}

		lastErr = err
		slog.Warn(
			"Upload failed, will retry.",
			"gcsObject", destObject,
			"attempt", i+1,
			"maxRetries", maxRetries,
			"backoff", backoff.String(),
			"error", err,
		)

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			slog.Error("Context cancelled during backoff. Aborting retries.", "gcsObject", destObject, "error", ctx.Err())
			return ctx.Err()
		}
	}
	slog.Error("Upload failed after all retries.", "gcsObject", destObject, "error", lastErr)
	return fmt.Errorf("upload for %s failed after all retries: %w", destObject, lastErr)
}

// UploadTree uploads every regular file under root to bucket, keyed as
// prefix/<path relative to root>. It returns the object names that were written.
func UploadTree(ctx context.Context, client *storage.Client, bucket, prefix, root string) ([]string, error) {
	files, err := ObjectNames(prefix, root)
	if err != nil {
		return nil, err
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(10)

	objects := make([]string, 0, len(files))
	for localPath, object := range files {
		objects = append(objects, object)
		eg.Go(func() error {
			if err := UploadFile(gctx, client, bucket, localPath, object); err != nil {
				return fmt.Errorf("%s: %w", object, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("one or more artifacts failed to upload: %w", err)
	}
	return objects, nil
}

// ObjectNames maps each regular file under root to its object name under prefix.
func ObjectNames(prefix, root string) (map[string]string, error) {
	files := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[path] = strings.TrimPrefix(prefix+"/"+filepath.ToSlash(rel), "/")
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}
