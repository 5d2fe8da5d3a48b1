package formats

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Source names the part of a response that decided the format
type Source string

const (
	SourceURL                Source = "url"
	SourceMagic              Source = "magic"
	SourceContentType        Source = "content-type"
	SourceContentDisposition Source = "content-disposition"
	SourceNone               Source = "none"
)

// SniffSize is the number of body bytes used for magic detection
const SniffSize = 3072

// Detection is the outcome of format detection
type Detection struct {
	Format    string
	MediaType string
	Source    Source
}

// Input is what is known about a resource link
type Input struct {
	URL                string
	Head               []byte
	ContentType        string
	ContentDisposition string
}

// Detect applies the detection chain to in
func Detect(in Input) Detection {
	if f, ok := FromURL(in.URL); ok {
		return detection(f, SourceURL)
	}
	if len(in.Head) > 0 {
		if f, ok := fromMagic(in.Head); ok {
			return detection(f, SourceMagic)
		}
	}
	if in.ContentType != "" {
		if f, ok := ByMediaType(in.ContentType); ok {
			return detection(f, SourceContentType)
		}
	}
	if in.ContentDisposition != "" {
		if f, ok := fromContentDisposition(in.ContentDisposition); ok {
			return detection(f, SourceContentDisposition)
		}
	}
	return Detection{Source: SourceNone}
}

// FromURL returns the format named by the extension of the URL path
func FromURL(raw string) (*Format, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	ext := path.Ext(u.Path)
	if ext == "" {
		return nil, false
	}
	return Lookup(ext)
}

func fromMagic(head []byte) (*Format, bool) {
	mt := mimetype.Detect(head)
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("application/octet-stream") || m.Is("text/plain") {
			return nil, false
		}
		if f, ok := ByMediaType(m.String()); ok {
			return f, true
		}
		if f, ok := Lookup(m.Extension()); ok && f.Name != "txt" {
			return f, true
		}
	}
	return nil, false
}

func fromContentDisposition(header string) (*Format, bool) {
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return nil, false
	}
	name := params["filename"]
	if name == "" {
		return nil, false
	}
	return Lookup(path.Ext(strings.Trim(name, `"`)))
}

func detection(f *Format, src Source) Detection {
	return Detection{Format: f.Name, MediaType: f.MediaTypes[0], Source: src}
}

// Sniff fetches the first SniffSize bytes of rawURL and detects its format
func Sniff(ctx context.Context, client *http.Client, rawURL string) (Detection, error) {
	if d := Detect(Input{URL: rawURL}); d.Source != SourceNone {
		return d, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Detection{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", SniffSize-1))

	resp, err := client.Do(req)
	if err != nil {
		return Detection{}, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return Detection{}, fmt.Errorf("fetching %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	head, err := io.ReadAll(io.LimitReader(resp.Body, SniffSize))
	if err != nil {
		return Detection{}, fmt.Errorf("reading %s: %w", rawURL, err)
	}

	return Detect(Input{
		URL:                rawURL,
		Head:               head,
		ContentType:        resp.Header.Get("Content-Type"),
		ContentDisposition: resp.Header.Get("Content-Disposition"),
	}), nil
}
