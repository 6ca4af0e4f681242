package engine

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://invidious.example"

// videoCard renders one Invidious search card the way the instance does.
func videoCard(id, title, channel, views, uploaded string) string {
	return fmt.Sprintf(`
<div class="pure-u-1 pure-u-md-1-4">
  <div class="h-box">
    <div class="thumbnail">
      <a tabindex="-1" href="/watch?v=%[1]s">
        <img loading="lazy" tabindex="-1" class="thumbnail" src="/vi/%[1]s/mqdefault.jpg"/>
      </a>
      <div class="bottom-right-overlay"><p class="length">10:00</p></div>
    </div>
    <div class="video-card-row">
      <a href="/watch?v=%[1]s"><p dir="auto">%[2]s</p></a>
    </div>
    <div class="video-card-row flexible">
      <div class="flex-left"><a href="/channel/UC%[1]s">
        <p class="channel-name" dir="auto">%[3]s</p>
      </a></div>
      <div class="flex-right"></div>
    </div>
    <div class="video-card-row flexible">
      <div class="flex-left"><p class="video-data" dir="auto">Shared %[5]s</p></div>
      <div class="flex-right"><p class="video-data" dir="auto">%[4]s views</p></div>
    </div>
  </div>
</div>`, id, title, channel, views, uploaded)
}

func page(cards ...string) string {
	return `<html><body><div class="pure-g">` + strings.Join(cards, "\n") + `</div></body></html>`
}

func TestExtractVideos_WellFormedCards(t *testing.T) {
	html := page(
		videoCard("aaa", "First Video", "Acme Corp ✓", "1.2M", "2 days ago"),
		videoCard("bbb", "Second Video", "Other Channel", "1,234", "3 weeks ago"),
		videoCard("ccc", "Third Video", "Third ✔ 10K subscribers", "3M", "1 year ago"),
	)

	videos, err := ExtractVideos(html, testBaseURL)
	require.NoError(t, err)
	require.Len(t, videos, 3)

	first := videos[0]
	assert.Equal(t, "https://invidious.example/vi/aaa/mqdefault.jpg", *first.Thumbnail)
	assert.Equal(t, "First Video", *first.Title)
	assert.Equal(t, "https://invidious.example/watch?v=aaa", *first.URL)
	assert.Equal(t, "Acme Corp", *first.ChannelName)
	assert.Equal(t, int64(1_200_000), first.Views)
	assert.Equal(t, "Shared 2 days ago", *first.UploadDate)

	assert.Equal(t, "Second Video", *videos[1].Title)
	assert.Equal(t, int64(1234), videos[1].Views)
	assert.Equal(t, "Other Channel", *videos[1].ChannelName)

	assert.Equal(t, "Third Video", *videos[2].Title)
	assert.Equal(t, "Third", *videos[2].ChannelName)
	assert.Equal(t, int64(3_000_000), videos[2].Views)
}

func TestExtractVideos_DropsCardWithoutTitleLink(t *testing.T) {
	noTitle := `
<div class="pure-u-1 pure-u-md-1-4">
  <div class="thumbnail"><a href="/watch?v=zzz"><img class="thumbnail" src="/vi/zzz/mq.jpg"/></a></div>
  <div class="video-card-row"><p>No link here</p></div>
  <div class="video-card-row flexible">
    <div class="flex-left"><p class="channel-name">Somebody</p></div>
    <div class="flex-right"><p class="video-data">5K views</p></div>
  </div>
</div>`
	emptyTitle := `
<div class="pure-u-1 pure-u-md-1-4">
  <div class="video-card-row"><a href="/watch?v=yyy">   </a></div>
</div>`

	videos, err := ExtractVideos(page(noTitle, videoCard("ok", "Kept", "C", "1", "today"), emptyTitle), testBaseURL)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "Kept", *videos[0].Title)
}

func TestExtractVideos_TitleRowIgnoresFlexibleRows(t *testing.T) {
	// A flexible row precedes the title row; its link must not be taken as the title.
	html := page(`
<div class="pure-u-1 pure-u-md-1-4">
  <div class="video-card-row flexible">
    <div class="flex-left"><a href="/channel/UCx"><p class="channel-name">Chan</p></a></div>
  </div>
  <div class="video-card-row"><a href="/watch?v=real">Real Title</a></div>
</div>`)

	videos, err := ExtractVideos(html, testBaseURL)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "Real Title", *videos[0].Title)
	assert.Equal(t, "https://invidious.example/watch?v=real", *videos[0].URL)
	assert.Equal(t, "Chan", *videos[0].ChannelName)
}

func TestExtractVideos_OptionalFieldsMissing(t *testing.T) {
	html := page(`
<div class="pure-u-1 pure-u-md-1-4">
  <div class="video-card-row"><a href="https://elsewhere.example/v/1">Bare</a></div>
</div>`)

	videos, err := ExtractVideos(html, testBaseURL)
	require.NoError(t, err)
	require.Len(t, videos, 1)

	v := videos[0]
	assert.Nil(t, v.Thumbnail)
	assert.Nil(t, v.ChannelName)
	assert.Nil(t, v.UploadDate)
	assert.Equal(t, int64(0), v.Views)
	assert.Equal(t, "https://elsewhere.example/v/1", *v.URL)
}

func TestExtractVideos_ThumbnailNeedsLinkAndSrc(t *testing.T) {
	tests := []struct {
		name      string
		thumbnail string
		want      *string
	}{
		{
			name:      "no anchor",
			thumbnail: `<div class="thumbnail"><img class="thumbnail" src="/vi/x/mq.jpg"/></div>`,
		},
		{
			name:      "empty src",
			thumbnail: `<div class="thumbnail"><a href="/watch?v=x"><img class="thumbnail" src=""/></a></div>`,
		},
		{
			name:      "img without thumbnail class",
			thumbnail: `<div class="thumbnail"><a href="/watch?v=x"><img src="/vi/x/mq.jpg"/></a></div>`,
		},
		{
			name:      "absolute src",
			thumbnail: `<div class="thumbnail"><a href="/watch?v=x"><img class="thumbnail" src="https://i.ytimg.com/vi/x/mq.jpg"/></a></div>`,
			want:      strPtr("https://i.ytimg.com/vi/x/mq.jpg"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := page(`<div class="pure-u-1 pure-u-md-1-4">` + tt.thumbnail +
				`<div class="video-card-row"><a href="/watch?v=x">X</a></div></div>`)
			videos, err := ExtractVideos(html, testBaseURL)
			require.NoError(t, err)
			require.Len(t, videos, 1)
			assert.Equal(t, tt.want, videos[0].Thumbnail)
		})
	}
}

func TestExtractVideos_LastFlexibleRowWins(t *testing.T) {
	html := page(`
<div class="pure-u-1 pure-u-md-1-4">
  <div class="video-card-row"><a href="/watch?v=x">X</a></div>
  <div class="video-card-row flexible">
    <div class="flex-left"><p class="channel-name">First Channel</p></div>
    <div class="flex-right"><p class="video-data">100 views</p></div>
  </div>
  <div class="video-card-row flexible">
    <div class="flex-left"><p class="channel-name">Second Channel ✓</p></div>
    <div class="flex-right"><p class="video-data">2K views</p></div>
  </div>
  <div class="video-card-row flexible">
    <div class="flex-left"><p class="video-data">5 hours ago</p></div>
    <div class="flex-right"><p class="video-data">No views</p></div>
  </div>
</div>`)

	videos, err := ExtractVideos(html, testBaseURL)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "Second Channel", *videos[0].ChannelName)
	assert.Equal(t, "5 hours ago", *videos[0].UploadDate)
	// "No views" has no count, so the earlier value stays.
	assert.Equal(t, int64(2000), videos[0].Views)
}

func TestExtractVideos_OversizedViewCountKeepsEarlierValue(t *testing.T) {
	html := page(`
<div class="pure-u-1 pure-u-md-1-4">
  <div class="video-card-row"><a href="/watch?v=x">X</a></div>
  <div class="video-card-row flexible">
    <div class="flex-right"><p class="video-data">2K views</p></div>
  </div>
  <div class="video-card-row flexible">
    <div class="flex-right"><p class="video-data">99999999999999999999 views</p></div>
  </div>
</div>`)

	videos, err := ExtractVideos(html, testBaseURL)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.GreaterOrEqual(t, videos[0].Views, int64(0))
	assert.Equal(t, int64(2000), videos[0].Views)
}

func TestExtractVideos_EmptyChannelOverridesToNil(t *testing.T) {
	html := page(`
<div class="pure-u-1 pure-u-md-1-4">
  <div class="video-card-row"><a href="/watch?v=x">X</a></div>
  <div class="video-card-row flexible"><div class="flex-left"><p class="channel-name">Named</p></div></div>
  <div class="video-card-row flexible"><div class="flex-left"><p class="channel-name">  </p></div></div>
</div>`)

	videos, err := ExtractVideos(html, testBaseURL)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Nil(t, videos[0].ChannelName)
}

func TestExtractVideos_NoCards(t *testing.T) {
	for _, html := range []string{"", "<html><body><p>No results</p></body></html>", "<<<not html>>>"} {
		videos, err := ExtractVideos(html, testBaseURL)
		require.NoError(t, err)
		assert.NotNil(t, videos)
		assert.Empty(t, videos)
	}
}

func TestExtractVideos_Idempotent(t *testing.T) {
	html := page(
		videoCard("aaa", "One", "Chan ✓", "1.2K", "today"),
		videoCard("bbb", "Two", "Chan", "7", "yesterday"),
	)
	first, err := ExtractVideos(html, testBaseURL)
	require.NoError(t, err)
	second, err := ExtractVideos(html, testBaseURL)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
