package mail

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// maxImageSize caps how many bytes of a product image are embedded
const maxImageSize = 5 << 20

// ImageEmbedError means the product image could not be fetched.
// It never fails a send; the HTML body links to the image instead.
type ImageEmbedError struct {
	URL string
	Err error
}

func (e *ImageEmbedError) Error() string {
	return fmt.Sprintf("embed image %s: %v", e.URL, e.Err)
}

func (e *ImageEmbedError) Unwrap() error {
	return e.Err
}

// ImageFetcher downloads an image for inline embedding
type ImageFetcher interface {
	Fetch(ctx context.Context, imageURL string) (InlineImage, error)
}

// HTTPImageFetcher fetches images with a plain GET
type HTTPImageFetcher struct {
	client *http.Client
}

// NewHTTPImageFetcher creates an image fetcher using client
func NewHTTPImageFetcher(client *http.Client) *HTTPImageFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPImageFetcher{client: client}
}

// Fetch returns the image at imageURL. Every failure is an *ImageEmbedError.
func (f *HTTPImageFetcher) Fetch(ctx context.Context, imageURL string) (InlineImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return InlineImage{}, &ImageEmbedError{URL: imageURL, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return InlineImage{}, &ImageEmbedError{URL: imageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return InlineImage{}, &ImageEmbedError{URL: imageURL, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return InlineImage{}, &ImageEmbedError{URL: imageURL, Err: err}
	}
	if len(data) > maxImageSize {
		return InlineImage{}, &ImageEmbedError{URL: imageURL, Err: fmt.Errorf("image larger than %d bytes", maxImageSize)}
	}

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}
	if !strings.HasPrefix(contentType, "image/") {
		contentType = http.DetectContentType(data)
	}

	return InlineImage{
		Filename:    imageFilename(imageURL, contentType),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func imageFilename(imageURL, contentType string) string {
	if u, err := url.Parse(imageURL); err == nil {
		if base := path.Base(u.Path); base != "" && base != "." && base != "/" {
			return base
		}
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return "product" + exts[0]
	}
	return "product"
}
