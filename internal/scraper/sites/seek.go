package sites

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"jobex-scraper/internal/httpclient"
	"jobex-scraper/internal/logging"
	"jobex-scraper/internal/scraper"
	"jobex-scraper/pkg/models"
)

const (
	seekEndpoint = "https://jobsearch-api-ts.cloud.seek.com.au/v4/counts"
	seekSiteKey  = "NZ-Main"
	seekWhere    = "All+New+Zealand"

	// counts[2] is the classification bucket; its items are per-category totals
	seekItemsPath = "counts.2.items"

	maxSeekBody = 1 << 20
)

// Seek reads job counts from SEEK's JSON counts endpoint
type Seek struct {
	client   *httpclient.Client
	endpoint string
	timeout  time.Duration
	logger   logging.Logger
}

// NewSeek creates the SEEK adapter over the shared client
func NewSeek(client *httpclient.Client, opts Options) *Seek {
	opts = opts.withDefaults()
	return &Seek{
		client:   client,
		endpoint: seekEndpoint,
		timeout:  opts.RequestTimeout,
		logger:   opts.Logger.WithField("site", "seek"),
	}
}

func (s *Seek) Name() string {
	return "seek"
}

// RequestURL returns the counts request for title
func (s *Seek) RequestURL(title string) string {
	return fmt.Sprintf("%s?siteKey=%s&where=%s&keywords=%s", s.endpoint, seekSiteKey, seekWhere, scraper.EncodePlus(title))
}

// JobCount sums the per-category counts for title. It never reports an absent
// count: the endpoint either yields a bucket to sum or the shape is wrong.
func (s *Seek) JobCount(ctx context.Context, title string) (models.JobCount, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	url := s.RequestURL(title)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.NoCount, scraper.NewError(scraper.ErrNetwork, "seek", "building request", err)
	}
	req.Header.Set("Accept", "application/json")

	s.logger.Debug("Requesting job counts", map[string]interface{}{"url": url})

	resp, err := s.client.Do(req)
	if err != nil {
		return models.NoCount, scraper.NewError(scraper.ErrNetwork, "seek", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.NoCount, scraper.NewError(scraper.ErrNetwork, "seek", fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSeekBody+1))
	if err != nil {
		return models.NoCount, scraper.NewError(scraper.ErrNetwork, "seek", "reading body", err)
	}
	if len(body) > maxSeekBody {
		return models.NoCount, scraper.NewError(scraper.ErrNetwork, "seek", fmt.Sprintf("response body exceeds %d bytes", maxSeekBody), nil)
	}

	total, err := sumSeekCounts(body)
	if err != nil {
		return models.NoCount, err
	}
	return models.CountOf(total), nil
}

// sumSeekCounts sums every value of the counts[2].items object
func sumSeekCounts(body []byte) (uint64, error) {
	if !gjson.ValidBytes(body) {
		return 0, scraper.NewError(scraper.ErrParse, "seek", "response is not valid JSON", nil)
	}

	// gjson would also resolve "2" as an object key
	if !gjson.GetBytes(body, "counts").IsArray() {
		return 0, scraper.NewError(scraper.ErrJSONShape, "seek", "counts is not a list", nil)
	}

	items := gjson.GetBytes(body, seekItemsPath)
	if !items.IsObject() {
		return 0, scraper.NewError(scraper.ErrJSONShape, "seek", seekItemsPath+" is not an object", nil)
	}

	var (
		total    uint64
		shapeErr error
	)
	items.ForEach(func(key, value gjson.Result) bool {
		n, err := countValue(value)
		if err != nil {
			shapeErr = scraper.NewError(scraper.ErrJSONShape, "seek", fmt.Sprintf("%s.%s", seekItemsPath, key.String()), err)
			return false
		}
		if total > math.MaxUint64-n {
			shapeErr = scraper.NewError(scraper.ErrJSONShape, "seek", "count total overflows", nil)
			return false
		}
		total += n
		return true
	})
	if shapeErr != nil {
		return 0, shapeErr
	}
	return total, nil
}

// countValue accepts only non-negative JSON integers
func countValue(value gjson.Result) (uint64, error) {
	if value.Type != gjson.Number {
		return 0, fmt.Errorf("value %s is not a number", value.Raw)
	}
	n, err := strconv.ParseUint(value.Raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("value %s is not a count", value.Raw)
	}
	return n, nil
}
