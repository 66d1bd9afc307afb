package resolve

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/animedeck/pkg/dictionary"
	"github.com/japaniel/animedeck/pkg/jisho"
)

type fakeLexicon struct {
	entries map[string][]dictionary.JMdictEntry
	calls   int
}

func (f *fakeLexicon) Lookup(term string) []dictionary.JMdictEntry {
	f.calls++
	return f.entries[term]
}

type fakeOnline struct {
	results map[string]*jisho.Result
	err     error
	calls   int
}

func (f *fakeOnline) Search(_ context.Context, keyword string) (*jisho.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results[keyword], nil
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func dogEntry() dictionary.JMdictEntry {
	return dictionary.JMdictEntry{
		Id:   "1",
		Kana: []dictionary.JMdictElement{{Text: "いぬ", Common: true}},
		Sense: []dictionary.JMdictSense{
			{Gloss: []dictionary.JMdictGloss{{Text: "dog"}}},
			{Gloss: []dictionary.JMdictGloss{{Text: "spy"}, {Text: "snoop"}}},
		},
	}
}

type env struct {
	lex    *fakeLexicon
	online *fakeOnline
	cache  *DefinitionCache
	path   string
	res    *Resolver
}

func newEnv(t *testing.T) *env {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dict.csv")
	cache, err := OpenDefinitionCache(path)
	require.NoError(t, err)
	names, err := LoadNames("")
	require.NoError(t, err)

	e := &env{
		lex: &fakeLexicon{entries: map[string][]dictionary.JMdictEntry{
			"犬": {dogEntry()},
			"俺": {{Id: "9", Kana: []dictionary.JMdictElement{{Text: "おれ"}}, Sense: []dictionary.JMdictSense{{Gloss: []dictionary.JMdictGloss{{Text: "wrong"}}}}}},
		}},
		online: &fakeOnline{results: map[string]*jisho.Result{
			"ウザい": {Reading: "うざい", Senses: [][]string{{"annoying"}, {"troublesome", "tiresome"}}},
		}},
		cache: cache,
		path:  path,
	}
	e.res = NewResolver(NewTables(), names, cache, e.lex, e.online, discard())
	return e
}

func TestResolve_Tiers(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	tests := []struct {
		name string
		q    Query
		want Definition
	}{
		{"manual fix", Query{Word: "俺", Reading: "オレ"}, Definition{"I / Me (Masculine)", "おれ", SourceManualFix}},
		{"grammar with reading", Query{Word: "から", Reading: "カラ"}, Definition{"From / Because", "カラ", SourceGrammar}},
		{"grammar without reading", Query{Word: "けど"}, Definition{"But / Although", "けど", SourceGrammar}},
		{"name map", Query{Word: "サトシ", Reading: "サトシ", ProperNoun: true}, Definition{"Satoshi (Ash)", "サトシ", SourceNameMap}},
		{"proper noun", Query{Word: "東京", Reading: "トウキョウ", ProperNoun: true}, Definition{"Toukyou", "東京", SourceProperNoun}},
		{"dictionary", Query{Word: "犬", NormalizedForm: "犬", Reading: "イヌ"}, Definition{"1. dog<br>2. spy, snoop", "いぬ", SourceDictionary}},
		{"online", Query{Word: "ウザい"}, Definition{"1. annoying<br>2. troublesome, tiresome", "うざい", SourceOnline}},
		{"unresolved", Query{Word: "ゴニョ"}, Definition{NotFoundMeaning, "ゴニョ", SourceUnresolved}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.res.Resolve(ctx, tt.q))
		})
	}
}

func TestResolve_ManualFixPrecedence(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.lex.entries["決闘"] = []dictionary.JMdictEntry{dogEntry()}
	e.online.results["決闘"] = &jisho.Result{Reading: "x", Senses: [][]string{{"y"}}}

	tables := NewTables()
	for _, word := range []string{"決闘", "俺", "は", "紬"} {
		fix, ok := tables.Fix(word)
		require.True(t, ok, word)
		got := e.res.Resolve(ctx, Query{Word: word, NormalizedForm: word, ProperNoun: true, Reading: "ダミー"})
		assert.Equal(t, fix.Meaning, got.Meaning, word)
		assert.Equal(t, fix.Reading, got.Reading, word)
		assert.Equal(t, SourceManualFix, got.Source, word)
	}
	assert.Zero(t, e.lex.calls)
	assert.Zero(t, e.online.calls)
}

func TestResolve_Idempotent(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	words := []Query{
		{Word: "犬", NormalizedForm: "犬"},
		{Word: "ウザい"},
		{Word: "ゴニョ"},
	}
	for _, q := range words {
		e.res.Resolve(ctx, q)
	}

	// Reopen the cache file as a later run would.
	cache, err := OpenDefinitionCache(e.path)
	require.NoError(t, err)
	assert.Equal(t, 3, cache.Len())

	lex := &fakeLexicon{entries: e.lex.entries}
	online := &fakeOnline{results: e.online.results}
	names, _ := LoadNames("")
	again := NewResolver(NewTables(), names, cache, lex, online, discard())

	first := make([]Definition, len(words))
	for i, q := range words {
		first[i] = again.Resolve(ctx, q)
		assert.Equal(t, SourceLocalCache, first[i].Source)
	}
	for i, q := range words {
		assert.Equal(t, first[i], again.Resolve(ctx, q))
	}
	assert.Zero(t, lex.calls, "lexicon must not be consulted on cache hits")
	assert.Zero(t, online.calls, "online API must not be consulted on cache hits")

	assert.Equal(t, "1. dog<br>2. spy, snoop", first[0].Meaning)
	assert.Equal(t, "いぬ", first[0].Reading)
}

func TestResolve_TransientFailureNotCached(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.online.err = errors.New("timeout")

	got := e.res.Resolve(ctx, Query{Word: "ウザい"})
	assert.Equal(t, Definition{NotFoundMeaning, "ウザい", SourceUnresolved}, got)
	_, cached := e.cache.Get("ウザい")
	assert.False(t, cached)

	e.online.err = nil
	got = e.res.Resolve(ctx, Query{Word: "ウザい"})
	assert.Equal(t, SourceOnline, got.Source)
	assert.Equal(t, 2, e.online.calls)
}

func TestResolve_NormalizedFormFirst(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	got := e.res.Resolve(ctx, Query{Word: "ｲﾇ", NormalizedForm: "犬"})
	assert.Equal(t, SourceDictionary, got.Source)
	assert.Equal(t, 1, e.lex.calls)
}

func TestResolve_OnlineDisabled(t *testing.T) {
	e := newEnv(t)
	names, _ := LoadNames("")
	r := NewResolver(NewTables(), names, e.cache, e.lex, nil, discard())

	got := r.Resolve(context.Background(), Query{Word: "ゴニョ"})
	assert.Equal(t, SourceUnresolved, got.Source)
	_, cached := e.cache.Get("ゴニョ")
	assert.False(t, cached)
}

func TestDefinitionCache_FirstRowWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.csv")
	content := "犬,\"1. dog<br>2. spy, snoop\",いぬ,Jamdict\n犬,other,x,Jisho\n,skip,me,None\nshort,row\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := OpenDefinitionCache(path)
	require.NoError(t, err)
	d, ok := c.Get("犬")
	require.True(t, ok)
	assert.Equal(t, Definition{"1. dog<br>2. spy, snoop", "いぬ", Source("Jamdict")}, d)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Append("猫", Definition{"1. cat", "ねこ", SourceDictionary}))
	require.NoError(t, c.Append("猫", Definition{"ignored", "x", SourceOnline}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content+"猫,1. cat,ねこ,DictionaryLookup\n", string(data))
}
