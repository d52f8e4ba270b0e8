// Package siasisten scrapes the SiAsisten portal for teaching
// assistant vacancy postings. The portal is a Django app, login is a
// csrfmiddlewaretoken form POST and the listing is a plain HTML table
// with a fixed column layout.
package siasisten

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/absolutepraya/siasisten-bot/lib/htmlutil"
	"github.com/absolutepraya/siasisten-bot/lib/lowongan"
)

var tracer = otel.Tracer("scrapers/siasisten")

const (
	loginPath   = "/login/"
	listingPath = "/lowongan/listLowongan/"

	userAgent = "Mozilla/5.0 (compatible; SiAsistenBot/1.0)"

	// substituted when a listing row has no registration anchor
	LinkNotAvailable = "Link not available"
)

var (
	ErrCsrfTokenNotFound = fmt.Errorf("csrf token not found on login page")
	ErrLoginRejected     = fmt.Errorf("login rejected, check credentials")
	ErrNoTable           = fmt.Errorf("no table element on listing page")
)

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	BaseUrl  string
	Username string
	Password string
}

// NewClient builds the session client and logs in immediately. An
// error here means the scraper is unusable, the session cookie
// obtained on success lives for the rest of the process.
func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetHeader("User-Agent", userAgent)
	client.SetTimeout(time.Second * 30)

	c := &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}
	if err := c.login(ctx, opts.Username, opts.Password); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:login")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(loginPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch login page")
		return err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse login page")
		return err
	}

	token := doc.Find("input[name=csrfmiddlewaretoken]").AttrOr("value", "")
	if token == "" {
		span.SetStatus(codes.Error, ErrCsrfTokenNotFound.Error())
		return ErrCsrfTokenNotFound
	}

	form := url.Values{
		"username":            {username},
		"password":            {password},
		"csrfmiddlewaretoken": {token},
		"next":                {""},
	}
	loginUrl := c.BaseUrl.JoinPath(loginPath).String()

	res, err = c.Http.R().
		SetContext(ctx).
		SetHeader("Referer", loginUrl).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody(form.Encode()).
		Post(loginPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to post credentials")
		return err
	}

	// the portal sets no explicit success flag, a successful login
	// redirects away from the login page
	if res.RawResponse.Request.URL.String() == loginUrl {
		span.SetStatus(codes.Error, ErrLoginRejected.Error())
		return ErrLoginRejected
	}

	slog.InfoContext(ctx, "logged in to siasisten", "username", username)
	return nil
}

// FetchLowongan scrapes the listing table. The column layout is
// assumed fixed: cell 1 holds the title, cells 5..7 the slot and
// applicant counts, cell 8 the registration anchor.
func (c *Client) FetchLowongan(ctx context.Context) ([]lowongan.Lowongan, error) {
	ctx, span := tracer.Start(ctx, "client:FetchLowongan")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(listingPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch listing page")
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse listing page")
		return nil, err
	}

	entries, err := c.parseListing(ctx, doc)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	slog.InfoContext(ctx, "fetched lowongan listing", "entries", len(entries))
	return entries, nil
}

func (c *Client) parseListing(ctx context.Context, doc *goquery.Document) ([]lowongan.Lowongan, error) {
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, ErrNoTable
	}

	var entries []lowongan.Lowongan
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		// row 0 is the header
		if i == 0 {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 9 {
			slog.WarnContext(ctx, "skipping listing row with too few columns",
				"row", i, "columns", cells.Length())
			return
		}

		link := LinkNotAvailable
		if href, ok := htmlutil.FirstAnchorHref(cells.Eq(8)); ok {
			link = c.resolveLink(href)
		}

		entries = append(entries, lowongan.Lowongan{
			Title:      htmlutil.GetText(cells.Eq(1)),
			DaftarLink: link,
			Stats:      parseStats(cells),
		})
	})
	return entries, nil
}

func (c *Client) resolveLink(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return LinkNotAvailable
	}
	return c.BaseUrl.ResolveReference(ref).String()
}

// parseStats reads the "Jumlah Lowongan" / "Jumlah Pelamar" /
// "Jumlah Diterima" cells. Rows where any of them fails to parse get
// no stats at all rather than a partial struct.
func parseStats(cells *goquery.Selection) *lowongan.Stats {
	total, err := strconv.Atoi(strings.TrimSpace(cells.Eq(5).Text()))
	if err != nil {
		return nil
	}
	applicants, err := strconv.Atoi(strings.TrimSpace(cells.Eq(6).Text()))
	if err != nil {
		return nil
	}
	filled, err := strconv.Atoi(strings.TrimSpace(cells.Eq(7).Text()))
	if err != nil {
		return nil
	}
	return &lowongan.Stats{
		SlotsFilled:    filled,
		SlotsTotal:     total,
		ApplicantCount: applicants,
	}
}
