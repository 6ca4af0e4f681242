package engine

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Invidious search page selectors.
const (
	selCard         = ".pure-u-1.pure-u-md-1-4"
	selThumbnailBox = ".thumbnail"
	selThumbnailImg = "img.thumbnail"
	selTitleRow     = ".video-card-row:not(.flexible)"
	selFlexRow      = ".video-card-row.flexible"
	selFlexLeft     = ".flex-left"
	selFlexRight    = ".flex-right"
	selChannelName  = ".channel-name"
	selVideoData    = ".video-data"
	selLink         = "a[href]"
)

// ExtractVideos parses an Invidious search page into video records, in document order.
// Relative links are resolved against baseURL. Cards without a title link are skipped.
// It has no side effects, so identical input always gives identical output.
func ExtractVideos(html, baseURL string) ([]ResultRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}

	videos := []ResultRecord{}
	doc.Find(selCard).Each(func(i int, card *goquery.Selection) {
		rec, ok := parseCard(card, baseURL)
		if !ok {
			return
		}
		videos = append(videos, rec)
	})
	return videos, nil
}

// parseCard extracts one video card. ok is false when title or url is missing.
func parseCard(card *goquery.Selection, baseURL string) (ResultRecord, bool) {
	var rec ResultRecord

	img := card.Find(selThumbnailBox).First().
		Find(selLink).First().
		Find(selThumbnailImg).First()
	if src, _ := img.Attr("src"); src != "" {
		rec.Thumbnail = strPtr(AbsoluteURL(baseURL, src))
	}

	link := card.Find(selTitleRow).First().Find(selLink).First()
	href, exists := link.Attr("href")
	if !exists {
		return rec, false
	}
	rec.Title = strPtr(strings.TrimSpace(link.Text()))
	rec.URL = strPtr(AbsoluteURL(baseURL, href))

	// Later rows override earlier ones.
	var channel, uploaded string
	card.Find(selFlexRow).Each(func(_ int, row *goquery.Selection) {
		if left := row.Find(selFlexLeft).First(); left.Length() > 0 {
			if name := left.Find(selChannelName).First(); name.Length() > 0 {
				channel = StripVerifiedBadge(name.Text())
			} else if date := left.Find(selVideoData).First(); date.Length() > 0 {
				uploaded = strings.TrimSpace(date.Text())
			}
		}

		right := row.Find(selFlexRight).First().Find(selVideoData).First()
		if right.Length() == 0 {
			return
		}
		if m, ok := FindViewCount(strings.TrimSpace(right.Text())); ok {
			if n, ok := parseViews(m); ok {
				rec.Views = n
			}
		}
	})
	rec.ChannelName = strPtr(channel)
	rec.UploadDate = strPtr(uploaded)

	if rec.Title == nil || rec.URL == nil {
		return rec, false
	}
	return rec, true
}
