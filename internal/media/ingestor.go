package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ictportal/internal/utils"
	"ictportal/pkg/types"

	"github.com/sirupsen/logrus"
)

// Ingestor validates uploaded files and moves the accepted ones onto
// local disk under {root}/images and {root}/videos. Files that fail the
// allow-list, the size ceiling or the disk write are dropped, never
// surfaced as errors: the submission proceeds with the accepted subset.
type Ingestor struct {
	root          string
	maxImageSize  int64
	maxVideoSize  int64
	allowedImages map[string]struct{}
	allowedVideos map[string]struct{}
	logger        *logrus.Logger
}

func NewIngestor(config *types.Config, logger *logrus.Logger) *Ingestor {
	return &Ingestor{
		root:          config.UploadDir,
		maxImageSize:  config.MaxImageSizeBytes,
		maxVideoSize:  config.MaxVideoSizeBytes,
		allowedImages: toSet(config.AllowedImageTypes),
		allowedVideos: toSet(config.AllowedVideoTypes),
		logger:        logger,
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// Ingest accepts zero-or-one video and zero-or-more images and returns
// the uploads that made it to disk, in input order (video first).
func (ing *Ingestor) Ingest(video *multipart.FileHeader, images []*multipart.FileHeader) []types.MediaUpload {
	accepted := make([]types.MediaUpload, 0, len(images)+1)

	if video != nil {
		if up, ok := ing.ingestOne(video, types.MediaKindVideo); ok {
			accepted = append(accepted, up)
		}
	}

	for _, image := range images {
		if up, ok := ing.ingestOne(image, types.MediaKindImage); ok {
			accepted = append(accepted, up)
		}
	}

	return accepted
}

func (ing *Ingestor) ingestOne(header *multipart.FileHeader, kind types.MediaKind) (types.MediaUpload, bool) {
	mimeType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))

	allowed, ceiling := ing.allowedImages, ing.maxImageSize
	if kind == types.MediaKindVideo {
		allowed, ceiling = ing.allowedVideos, ing.maxVideoSize
	}

	entry := ing.logger.WithFields(logrus.Fields{
		"file": header.Filename,
		"kind": kind,
		"mime": mimeType,
		"size": header.Size,
	})

	if _, ok := allowed[mimeType]; !ok {
		entry.Info("upload rejected: mime type not allowed")
		return types.MediaUpload{}, false
	}

	if header.Size > ceiling {
		entry.Info("upload rejected: file exceeds size ceiling")
		return types.MediaUpload{}, false
	}

	relPath, fileName, err := ing.writeFile(header, kind)
	if err != nil {
		entry.WithError(err).Error("upload rejected: disk write failed")
		return types.MediaUpload{}, false
	}

	return types.MediaUpload{
		Kind:      kind,
		FileName:  fileName,
		Path:      relPath,
		SizeBytes: header.Size,
		MimeType:  mimeType,
	}, true
}

func (ing *Ingestor) writeFile(header *multipart.FileHeader, kind types.MediaKind) (string, string, error) {
	subdir := "images"
	if kind == types.MediaKindVideo {
		subdir = "videos"
	}

	dir := filepath.Join(ing.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create upload dir: %w", err)
	}

	src, err := header.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	base := fmt.Sprintf("%s_%d_%s", kind, time.Now().UnixNano(), utils.NanoID())

	// O_EXCL guarantees we never clobber an existing file; on a residual
	// collision retry with an incrementing suffix.
	var dst *os.File
	fileName := base + ext
	for attempt := 1; ; attempt++ {
		dst, err = os.OpenFile(filepath.Join(dir, fileName), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) || attempt > 10 {
			return "", "", fmt.Errorf("create %s: %w", fileName, err)
		}
		fileName = fmt.Sprintf("%s_%d%s", base, attempt, ext)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", "", fmt.Errorf("write %s: %w", fileName, err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", "", fmt.Errorf("close %s: %w", fileName, err)
	}

	return filepath.ToSlash(filepath.Join(subdir, fileName)), fileName, nil
}

// Unlink removes a stored file given its path relative to the upload root.
func (ing *Ingestor) Unlink(relPath string) error {
	return os.Remove(filepath.Join(ing.root, filepath.FromSlash(relPath)))
}
