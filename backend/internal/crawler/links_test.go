package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://time.com/6300000/story/", "https://time.com/6300000/story"},
		{"HTTPS://Time.COM/6300000/story?utm_source=x#top", "https://time.com/6300000/story"},
		{"https://www.time.com/a/", "https://www.time.com/a"},
		{"http://time.com", "http://time.com"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Canonicalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Canonicalize("mailto:editor@time.com")
	assert.Error(t, err)
	_, err = Canonicalize("/relative/path")
	assert.Error(t, err)
}

func TestNodeID(t *testing.T) {
	id := NodeID("https://time.com/6300000/story/")
	assert.Len(t, id, 32)
	assert.Equal(t, id, NodeID("https://TIME.com/6300000/story?ref=home"))
	assert.NotEqual(t, id, NodeID("https://time.com/6300001/story"))
	assert.NotEqual(t, id, NodeID("https://www.time.com/6300000/story"))
}

func TestRegistrableDomain(t *testing.T) {
	d, err := RegistrableDomain("https://www.bbc.co.uk/news")
	require.NoError(t, err)
	assert.Equal(t, "bbc.co.uk", d)

	d, err = RegistrableDomain("http://127.0.0.1:8080/x")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", d)
}

func TestLinkFilter(t *testing.T) {
	f, err := NewLinkFilter("https://time.com/section/science/", nil, nil)
	require.NoError(t, err)

	from := "https://time.com/6300000/parent"

	_, ok := f.Accept("https://time.com/6300001/child/", from)
	assert.True(t, ok, "in-domain article link")

	_, ok = f.Accept("https://api.time.com/6300002/sub", from)
	assert.True(t, ok, "subdomain of the seed's registrable domain")

	_, ok = f.Accept("https://example.com/6300001/child", from)
	assert.False(t, ok, "off-domain")

	_, ok = f.Accept("https://nottime.com/6300003/x", from)
	assert.False(t, ok, "look-alike domain")

	_, ok = f.Accept("https://time.com/tag/space/", from)
	assert.False(t, ok, "denylisted tag page")

	_, ok = f.Accept("https://time.com/time-person-of-the-year-2023/", from)
	assert.False(t, ok, "denylisted special section")

	_, ok = f.Accept("https://time.com/subscribe", from)
	assert.False(t, ok, "denylisted subscribe page")

	_, ok = f.Accept("https://time.com/6300000/parent/#comments", from)
	assert.False(t, ok, "self link")

	canon, ok := f.Accept("https://time.com/6300001/child?src=feed", from)
	assert.False(t, ok, "already visited")
	assert.Equal(t, "https://time.com/6300001/child", canon)
}

func TestLinkFilter_PermittedDoesNotMarkVisited(t *testing.T) {
	f, err := NewLinkFilter("https://time.com/", nil, nil)
	require.NoError(t, err)

	canon, ok := f.Permitted("https://time.com/1/a", "")
	require.True(t, ok)
	assert.False(t, f.Visited().Contains(canon))

	_, ok = f.Accept("https://time.com/1/a", "")
	assert.True(t, ok)
	assert.True(t, f.Visited().Contains(canon))
	assert.Equal(t, 1, f.Visited().Len())

	_, ok = f.Accept("https://time.com/1/a/?utm=x", "")
	assert.False(t, ok)
	assert.Equal(t, 1, f.Visited().Len())
}

func TestLinkFilter_CustomDenyPatterns(t *testing.T) {
	f, err := NewLinkFilter("https://time.com/", []string{`^/live/`}, nil)
	require.NoError(t, err)

	_, ok := f.Permitted("https://time.com/live/election", "")
	assert.False(t, ok)
	_, ok = f.Permitted("https://time.com/tag/space", "")
	assert.True(t, ok, "defaults are replaced, not extended")

	_, err = NewLinkFilter("https://time.com/", []string{"("}, nil)
	assert.Error(t, err)
}
