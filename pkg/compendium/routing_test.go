package compendium_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-dungeon-buddy/mock"
	"github.com/shouni/go-dungeon-buddy/pkg/compendium"
	"github.com/shouni/go-dungeon-buddy/pkg/dom"
	"github.com/shouni/go-dungeon-buddy/pkg/search"
	"github.com/shouni/go-dungeon-buddy/pkg/types"
)

type fakeResolver struct {
	res search.Resolution
	err error
}

func (f *fakeResolver) Resolve(context.Context, string) (search.Resolution, error) {
	return f.res, f.err
}

func (f *fakeResolver) PageURL(link string) string {
	return "https://roll20.test" + link
}

type fakeExtractor struct {
	fetched []string
	failOn  string
}

func (f *fakeExtractor) Extract(doc dom.Document) (*types.AttributeMap, error) {
	return types.NewAttributeMap(doc.Title()), nil
}

func (f *fakeExtractor) FetchAndExtract(_ context.Context, url string) (*types.AttributeMap, error) {
	f.fetched = append(f.fetched, url)
	if url == f.failOn {
		return nil, errors.New("boom")
	}
	return types.NewAttributeMap(url), nil
}

func TestLookup_Routing(t *testing.T) {
	t.Run("document", func(t *testing.T) {
		ex := &fakeExtractor{}
		c, err := compendium.New(&fakeResolver{res: search.Resolution{
			Kind:     search.KindDocument,
			Document: &mock.Document{TitleText: "Paladin"},
		}}, ex)
		require.NoError(t, err)

		payload, err := c.Lookup(context.Background(), "paladin")
		require.NoError(t, err)
		require.True(t, payload.IsSingle())
		assert.Equal(t, "Paladin", payload.Single.Title())
		assert.Empty(t, ex.fetched)
	})

	t.Run("listing fetches candidates sequentially in order", func(t *testing.T) {
		ex := &fakeExtractor{}
		c, err := compendium.New(&fakeResolver{res: search.Resolution{
			Kind: search.KindListing,
			Candidates: []types.HyperLink{
				{Text: "B", Link: "/b"},
				{Text: "A", Link: "/a"},
				{Text: "B", Link: "/b"},
			},
		}}, ex)
		require.NoError(t, err)

		payload, err := c.Lookup(context.Background(), "x")
		require.NoError(t, err)
		assert.False(t, payload.IsSingle())
		require.Len(t, payload.Entries, 3)
		assert.Equal(t, []string{"B", "A", "B"}, []string{payload.Entries[0].Name, payload.Entries[1].Name, payload.Entries[2].Name})
		assert.Equal(t, []string{"https://roll20.test/b", "https://roll20.test/a", "https://roll20.test/b"}, ex.fetched)
	})

	t.Run("first candidate failure stops the loop", func(t *testing.T) {
		ex := &fakeExtractor{failOn: "https://roll20.test/a"}
		c, err := compendium.New(&fakeResolver{res: search.Resolution{
			Kind:       search.KindListing,
			Candidates: []types.HyperLink{{Text: "A", Link: "/a"}, {Text: "B", Link: "/b"}},
		}}, ex)
		require.NoError(t, err)

		_, err = c.Lookup(context.Background(), "x")
		require.Error(t, err)
		assert.Equal(t, []string{"https://roll20.test/a"}, ex.fetched)
	})

	t.Run("unknown resolution", func(t *testing.T) {
		c, err := compendium.New(&fakeResolver{res: search.Resolution{}}, &fakeExtractor{})
		require.NoError(t, err)

		_, err = c.GetResult(context.Background(), "x")
		require.Error(t, err)
		var unknown *compendium.UnknownResolutionError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, search.KindUnknown, unknown.Kind)
	})

	t.Run("resolver error propagates", func(t *testing.T) {
		want := errors.New("search down")
		c, err := compendium.New(&fakeResolver{err: want}, &fakeExtractor{})
		require.NoError(t, err)

		_, err = c.GetResult(context.Background(), "x")
		assert.ErrorIs(t, err, want)
	})
}
