package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/filetype"
	log "github.com/cloudposse/sketch/pkg/logger"
)

var remotePrefixes = []string{"http://", "https://", "git::", "s3::", "gcs::"}

// isRemote reports whether an extends entry is a URL rather than a path.
func isRemote(source string) bool {
	for _, prefix := range remotePrefixes {
		if strings.HasPrefix(source, prefix) {
			return true
		}
	}
	return false
}

// download fetches a remote config and returns the local path of the file.
// Sources with a `//` subpath are fetched as a directory and the subpath names the file inside it.
func (cl *ConfigLoader) download(source string) (string, error) {
	root, err := cl.downloadDir()
	if err != nil {
		return "", err
	}
	dst, err := os.MkdirTemp(root, "extends-")
	if err != nil {
		return "", errUtils.NewDirCreationError(root, err)
	}

	src, subDir := getter.SourceDirSubdir(source)
	mode := getter.ClientModeFile
	target := filepath.Join(dst, filetype.ExtractFilenameFromPath(src))
	fetchTo := target
	if subDir != "" {
		mode = getter.ClientModeDir
		target = filepath.Join(dst, filepath.FromSlash(subDir))
		fetchTo = dst
	}

	ctx, cancel := context.WithTimeout(context.Background(), cl.Timeout)
	defer cancel()

	log.Debug("Downloading remote config", "source", source, "destination", fetchTo)
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  fetchTo,
		Mode: mode,
	}
	if err := client.Get(); err != nil {
		return "", errUtils.Build(errUtils.Wrapf(errUtils.ErrRemoteDownload, err, "could not download the config `%s`", source)).
			WithHint("Remote extends accept http(s) URLs and go-getter sources such as `git::https://host/repo.git//sketch.yaml`").
			Err()
	}
	if _, err := os.Stat(target); err != nil {
		return "", errUtils.NewReadError(target, fmt.Errorf("%s does not contain the file: %w", source, err))
	}
	return target, nil
}

func (cl *ConfigLoader) downloadDir() (string, error) {
	if cl.downloads != "" {
		return cl.downloads, nil
	}
	if cl.DownloadDir != "" {
		if err := os.MkdirAll(cl.DownloadDir, 0o755); err != nil {
			return "", errUtils.NewDirCreationError(cl.DownloadDir, err)
		}
		cl.downloads = cl.DownloadDir
		return cl.downloads, nil
	}
	dir, err := os.MkdirTemp("", "sketch-extends-")
	if err != nil {
		return "", errUtils.NewDirCreationError(os.TempDir(), err)
	}
	cl.downloads = dir
	return dir, nil
}
