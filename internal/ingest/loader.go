// Package ingest turns file paths and URLs into documents with extracted
// raw text. It is the only part of scirap that touches the filesystem or
// the network on the input side.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/scirap/internal/cache"
	"github.com/ppiankov/scirap/internal/model"
)

// ErrUnsupportedType is returned for documents that are not text, HTML or PDF
var ErrUnsupportedType = errors.New("unsupported document type")

// Content types understood by the loader
const (
	TypeText = "text/plain"
	TypeHTML = "text/html"
	TypePDF  = "application/pdf"
)

var extensionTypes = map[string]string{
	".txt":   TypeText,
	".text":  TypeText,
	".md":    TypeText,
	".html":  TypeHTML,
	".htm":   TypeHTML,
	".xhtml": TypeHTML,
	".pdf":   TypePDF,
}

// Loader loads documents from local files and HTTP(S) URLs
type Loader struct {
	fetcher *Fetcher
	logger  *zap.Logger
}

// NewLoader creates a loader; c caches fetched URLs and may be nil
func NewLoader(cfg model.HTTPConfig, c cache.Cache, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		fetcher: NewFetcher(cfg, c, logger),
		logger:  logger,
	}
}

// IsURL reports whether ref names an HTTP(S) document
func IsURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// IsSupportedFile reports whether a file name has a known document extension
func IsSupportedFile(name string) bool {
	_, ok := extensionTypes[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Load reads ref and extracts its text
func (l *Loader) Load(ctx context.Context, ref string) (*model.Document, error) {
	if IsURL(ref) {
		return l.loadURL(ctx, ref)
	}
	return l.loadFile(ref)
}

func (l *Loader) loadFile(p string) (*model.Document, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	contentType := DetectContentType(p, "", data)
	doc, err := Extract(filepath.Base(p), contentType, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	doc.Source = p

	l.logger.Debug("document loaded",
		zap.String("ref", p),
		zap.String("content_type", doc.ContentType),
		zap.Int("bytes", doc.Bytes),
		zap.Int("pages", doc.Pages),
	)
	return doc, nil
}

func (l *Loader) loadURL(ctx context.Context, rawURL string) (*model.Document, error) {
	fetched, err := l.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	contentType := DetectContentType(urlPath(fetched.FinalURL), fetched.ContentType, fetched.Body)
	doc, err := Extract(nameFromURL(fetched.FinalURL), contentType, fetched.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rawURL, err)
	}
	doc.Source = fetched.FinalURL

	l.logger.Debug("document fetched",
		zap.String("ref", rawURL),
		zap.String("final_url", fetched.FinalURL),
		zap.Bool("cached", fetched.FromCache),
		zap.String("content_type", doc.ContentType),
		zap.Int("bytes", doc.Bytes),
	)
	return doc, nil
}

// Extract builds a document from raw bytes of the given content type
func Extract(name, contentType string, data []byte) (*model.Document, error) {
	doc := &model.Document{
		Name:        name,
		ContentType: contentType,
		Bytes:       len(data),
	}

	switch contentType {
	case TypeText:
		doc.Text = string(data)
	case TypeHTML:
		text, err := HTMLText(data)
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
		doc.Text = text
	case TypePDF:
		text, pages, err := PDFText(data)
		if err != nil {
			return nil, err
		}
		doc.Text = text
		doc.Pages = pages
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	return doc, nil
}

// DetectContentType picks the document type from the file extension, then
// the declared media type, then by sniffing the content.
func DetectContentType(name, declared string, data []byte) string {
	if t, ok := extensionTypes[strings.ToLower(path.Ext(name))]; ok {
		return t
	}

	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			switch mediaType {
			case TypeText, TypeHTML, TypePDF:
				return mediaType
			case "application/xhtml+xml":
				return TypeHTML
			case "text/markdown":
				return TypeText
			}
			if mediaType != "application/octet-stream" {
				return mediaType
			}
		}
	}

	sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return sniffed
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Path
}

// nameFromURL returns the last path segment, or the host for bare URLs
func nameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	p := strings.Trim(u.Path, "/")
	if p == "" {
		return u.Host
	}
	segments := strings.Split(p, "/")
	if name, err := url.PathUnescape(segments[len(segments)-1]); err == nil {
		return name
	}
	return segments[len(segments)-1]
}
