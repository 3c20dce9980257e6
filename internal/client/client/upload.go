package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sync"

	"github.com/google/uuid"

	"github.com/beefboard/boardclient/internal/client/models"
)

const defaultImageType = "image/jpeg"

// CreatePost uploads a new post as multipart form data and returns the id
// the server assigned. progress, when set, sees a non-decreasing fraction of
// the request body sent so far and is never called after CreatePost returns.
func (c *HTTPClient) CreatePost(ctx context.Context, title, content string, images []models.Image, progress ProgressFunc) (string, error) {
	body, contentType, err := encodePostForm(title, content, images)
	if err != nil {
		return "", fmt.Errorf("create_post: encode form: %w", err)
	}

	pr := newProgressReader(body, progress)
	defer pr.stop()

	var resp idBody
	r := request{
		op:          "create_post",
		method:      http.MethodPost,
		path:        c.endpoint("posts"),
		body:        body,
		contentType: contentType,
		auth:        true,
		progress:    pr,
	}
	if err := c.call(ctx, r, decodeJSON(&resp)); err != nil {
		return "", err
	}
	if resp.ID == nil || *resp.ID == "" {
		return "", fmt.Errorf("create_post: %w", invalidResponse(missing("id")))
	}
	return *resp.ID, nil
}

func encodePostForm(title, content string, images []models.Image) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("title", title); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("content", content); err != nil {
		return nil, "", err
	}

	for _, img := range images {
		name := img.Filename
		if name == "" {
			name = uuid.NewString() + ".jpg"
		}
		ct := img.ContentType
		if ct == "" {
			ct = defaultImageType
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, name))
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// progressReader reports how much of an in-memory body has been read.
// The transport may read the body from its own goroutine, so reports are
// serialized with stop under mu.
type progressReader struct {
	r     *bytes.Reader
	total int
	fn    ProgressFunc

	mu      sync.Mutex
	read    int
	last    float64
	stopped bool
}

func newProgressReader(body []byte, fn ProgressFunc) *progressReader {
	return &progressReader{r: bytes.NewReader(body), total: len(body), fn: fn, last: -1}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.report(n)
	}
	return n, err
}

func (p *progressReader) report(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.read += n
	if p.fn == nil || p.stopped || p.total == 0 {
		return
	}
	frac := float64(p.read) / float64(p.total)
	if frac > 1 {
		frac = 1
	}
	if frac <= p.last {
		return
	}
	p.last = frac
	p.fn(frac)
}

func (p *progressReader) stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
}
