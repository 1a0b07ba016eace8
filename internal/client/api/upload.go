package api

import (
	"bytes"
	"fmt"
	"net/http"
)

// UploadToPresignedURL PUTs raw file bytes to a presigned storage URL. The
// request goes straight to the object store, bypassing the backend.
func UploadToPresignedURL(url string, file []byte) error {
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(file))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upload failed: %s", resp.Status)
	}
	return nil
}
