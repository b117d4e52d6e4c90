package export

import (
	"context"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/storage"
)

// FormatEmailList renders the monitored-address list in the config format
// the dashboard consumes: one `email = "<address>"` line per entry.
func FormatEmailList(emails []string) string {
	lines := make([]string, 0, len(emails))
	for _, email := range emails {
		lines = append(lines, fmt.Sprintf("email = %q", email))
	}
	return strings.Join(lines, "\n")
}

// SaveEmailList overwrites path with the formatted address list.
func SaveEmailList(path string, emails []string) error {
	if err := os.WriteFile(path, []byte(FormatEmailList(emails)), 0644); err != nil {
		return fmt.Errorf("failed to write email list to %s: %w", path, err)
	}
	return nil
}

// MirrorToBucket uploads the formatted address list to a GCS bucket under
// the given object name.
func MirrorToBucket(ctx context.Context, bucketName string, objectName string, emails []string) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	defer client.Close()

	writer := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	writer.ContentType = "text/plain"
	if _, err := writer.Write([]byte(FormatEmailList(emails))); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write object %s to bucket %s: %w", objectName, bucketName, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize object %s in bucket %s: %w", objectName, bucketName, err)
	}
	return nil
}
