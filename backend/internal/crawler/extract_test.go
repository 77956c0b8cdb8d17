package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingHTML = `<html><body>
<div class="taxonomy-tout"><a href="/6300001/mars-rover/">Mars rover</a><a href="/ignored/">second</a></div>
<div class="taxonomy-tout"><a href="https://time.com/6300002/fusion/">Fusion</a></div>
<div class="taxonomy-tout"><span>no link</span></div>
<div class="promo"><a href="/6300003/not-a-tout/">Promo</a></div>
</body></html>`

const articleHTML = `<html><body>
<header>
  <h1> Rover finds water </h1>
  <ul><li><a href="/tag/space/">Space</a></li><li><a href="/tag/nasa/">NASA</a></li></ul>
</header>
<a href="/author/jane-doe/">Jane Doe</a>
<time>July 1, 2024 9:00 AM EDT</time><time>Updated July 2</time>
<p>The rover   drilled into
 the crater floor.</p>
<p>Scientists linked it to <a href="/6300009/earlier-find/">an earlier find</a> and <a href="#note">a note</a>.</p>
<p>   </p>
</body></html>`

func TestSelectorExtractor_ExtractListing(t *testing.T) {
	e := NewTimeExtractor()
	links, err := e.ExtractListing("https://time.com/section/science/", listingHTML)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://time.com/6300001/mars-rover/",
		"https://time.com/6300002/fusion/",
	}, links)
}

func TestSelectorExtractor_ExtractArticle(t *testing.T) {
	e := NewTimeExtractor()
	got, err := e.ExtractArticle("https://time.com/6300001/mars-rover/", articleHTML)
	require.NoError(t, err)

	assert.Equal(t, "Rover finds water", got.Header)
	assert.Equal(t, "Jane Doe", got.Author)
	assert.Equal(t, "July 1, 2024 9:00 AM EDT | Updated July 2", got.DatePublished)
	assert.Equal(t, "The rover drilled into the crater floor. Scientists linked it to an earlier find and a note.", got.Text)
	assert.Equal(t, []string{"Space", "NASA"}, got.Topics)
	assert.Equal(t, []string{"https://time.com/6300009/earlier-find/"}, got.Links)
}

func TestSelectorExtractor_DateFallback(t *testing.T) {
	e := NewTimeExtractor()
	got, err := e.ExtractArticle("https://time.com/1/x/", `<h1>H</h1><span class="entry-date">May 5</span><p>body</p>`)
	require.NoError(t, err)
	assert.Equal(t, "May 5", got.DatePublished)
}

func TestSelectorExtractor_EmptyPage(t *testing.T) {
	e := NewTimeExtractor()
	got, err := e.ExtractArticle("https://time.com/1/x/", `<html></html>`)
	require.NoError(t, err)
	assert.Empty(t, got.Header)
	assert.Empty(t, got.Text)
	assert.Empty(t, got.Links)
}
