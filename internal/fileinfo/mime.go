package fileinfo

import (
	"context"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
)

// knownTypes pins the guesses for common extensions so grouping does not
// depend on the host's mime.types database.
var knownTypes = map[string]string{
	".txt":     "text/plain",
	".md":      "text/markdown",
	".csv":     "text/csv",
	".log":     "text/plain",
	".html":    "text/html",
	".htm":     "text/html",
	".css":     "text/css",
	".xml":     "text/xml",
	".rs":      "text/x-rust",
	".go":      "text/x-go",
	".c":       "text/x-c",
	".h":       "text/x-c",
	".py":      "text/x-python",
	".sh":      "application/x-sh",
	".js":      "application/javascript",
	".json":    "application/json",
	".yaml":    "application/yaml",
	".yml":     "application/yaml",
	".toml":    "application/toml",
	".png":     "image/png",
	".jpg":     "image/jpeg",
	".jpeg":    "image/jpeg",
	".gif":     "image/gif",
	".bmp":     "image/bmp",
	".webp":    "image/webp",
	".tif":     "image/tiff",
	".tiff":    "image/tiff",
	".svg":     "image/svg+xml",
	".ico":     "image/x-icon",
	".mp4":     "video/mp4",
	".mkv":     "video/x-matroska",
	".webm":    "video/webm",
	".avi":     "video/x-msvideo",
	".mov":     "video/quicktime",
	".mp3":     "audio/mpeg",
	".flac":    "audio/flac",
	".ogg":     "audio/ogg",
	".wav":     "audio/wav",
	".m4a":     "audio/mp4",
	".pdf":     "application/pdf",
	".zip":     "application/zip",
	".gz":      "application/gzip",
	".tgz":     "application/x-compressed-tar",
	".bz2":     "application/x-bzip2",
	".xz":      "application/x-xz",
	".7z":      "application/x-7z-compressed",
	".rar":     "application/vnd.rar",
	".tar":     "application/x-tar",
	".rtf":     "application/rtf",
	".doc":     "application/msword",
	".docx":    "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".odt":     "application/vnd.oasis.opendocument.text",
	".deb":     "application/vnd.debian.binary-package",
	".exe":     "application/x-msdownload",
	".desktop": "application/x-desktop",
}

// GuessMimeType returns the MIME type guessed from the path's extension,
// or "" when nothing is known.
func GuessMimeType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	if t, ok := knownTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if mediaType, _, err := mime.ParseMediaType(t); err == nil {
			return mediaType
		}
		return t
	}
	return ""
}

// GroupForMimeType maps a MIME type onto its coarse group label.
func GroupForMimeType(mimeType string) string {
	top, sub, ok := strings.Cut(strings.ToLower(mimeType), "/")
	if !ok {
		return ""
	}
	switch top {
	case "text":
		return GroupText
	case "image":
		return GroupImages
	case "video":
		return GroupVideos
	case "audio":
		return GroupAudio
	case "application":
		if sub == "pdf" || sub == "zip" || strings.Contains(sub, "compressed") {
			return GroupDocuments
		}
		return GroupApplications
	}
	return ""
}

// MimeGroupForPath derives the group of a file from its extension.
func MimeGroupForPath(path string) string {
	return GroupForMimeType(GuessMimeType(path))
}

// SniffArchiveGroup inspects the leading bytes of stream and reports
// GroupDocuments when they identify an archive or compression format.
func SniffArchiveGroup(ctx context.Context, name string, stream io.Reader) (string, bool) {
	format, _, err := archives.Identify(ctx, name, stream)
	if err != nil || format == nil {
		return "", false
	}
	return GroupDocuments, true
}
