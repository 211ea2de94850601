package scraper

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"

	"github.com/preshow-cli/preshow/filesystem"
)

// Install downloads the script at remoteURL into localPath. Nothing is
// written when the local copy already has the same content; the result
// reports whether the file changed.
func Install(ctx context.Context, client *http.Client, remoteURL, localPath string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return false, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("fetch %s: %s", remoteURL, resp.Status)
	}

	remote, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}

	if local, err := filesystem.API().ReadFile(localPath); err == nil && sha256.Sum256(local) == sha256.Sum256(remote) {
		return false, nil
	}

	tmp := localPath + ".tmp"
	if err := filesystem.API().WriteFile(tmp, remote, 0o644); err != nil {
		return false, err
	}
	if err := filesystem.API().Rename(tmp, localPath); err != nil {
		_ = filesystem.API().Remove(tmp)
		return false, err
	}

	Forget(localPath)
	return true, nil
}
