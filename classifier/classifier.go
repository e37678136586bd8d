// Package classifier talks to the image prediction service that guesses
// what kind of problem a report photo shows.
package classifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// ErrUnavailable wraps every failure to obtain a prediction.
var ErrUnavailable = errors.New("classifier unavailable")

// Prediction is the service's best guess for an image.
type Prediction struct {
	Label      string
	Confidence float64
}

//go:generate mockgen -destination=../mocks/classifier.go -package=mocks github.com/SindhuAbhirami/civic-watch/classifier Classifier

// Classifier labels an image.
type Classifier interface {
	Classify(ctx context.Context, filename string, image []byte) (Prediction, error)
}

// HTTPClient posts the image as multipart field "file" and expects
// {"class": "...", "confidence": 0.87} back.
type HTTPClient struct {
	url    string
	client *http.Client
}

func NewHTTPClient(url string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{url: url, client: &http.Client{Timeout: timeout}}
}

func (c *HTTPClient) Classify(ctx context.Context, filename string, image []byte) (Prediction, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if _, err := part.Write(image); err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := w.Close(); err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Prediction{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var out struct {
		Class      string   `json:"class"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return Prediction{}, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if out.Class == "" || out.Confidence == nil {
		return Prediction{}, fmt.Errorf("%w: incomplete prediction", ErrUnavailable)
	}
	return Prediction{Label: out.Class, Confidence: *out.Confidence}, nil
}
