package deck

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []VocabRow {
	return []VocabRow{
		{
			Expression: "決闘", Reading: "けっとう", Meaning: "1. duel", Level: "N1", Frequency: 4,
			Sentence: "<b>決闘</b>だ、決闘を申し込む！", Translation: "A duel, I challenge you!",
			Episodes: "ep01, ep02", Image: `<img src="ep01_00_01_02_345.jpg">`,
			WordAudio: "[sound:Show_word_aaaa1111.mp3]",
		},
		{Expression: "猫", Reading: "ねこ", Meaning: "1. cat", Level: "N5", Frequency: 2, Episodes: "ep03"},
	}
}

func TestTableRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleRows()))

	first, _, _ := strings.Cut(buf.String(), "\n")
	assert.Equal(t, "Expression,Reading,Meaning,Level,Frequency,Sentence,Translation,Episodes,Image,WordAudio,SentenceAudio", first)

	rows, err := ReadTable(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleRows(), rows)
}

func TestReadTable_LegacyColumns(t *testing.T) {
	in := "\ufeffExpression,Reading,Meaning,Level,Frequency,Sentence,Translation,Episodes\n" +
		"猫,ねこ,cat,N5,3,猫だ。,It's a cat.,ep1\n" +
		",,,,,,,\n"
	rows, err := ReadTable(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Frequency)
	assert.Empty(t, rows[0].Image)

	_, err = ReadTable(strings.NewReader("Word,Count\nx,1\n"))
	assert.Error(t, err)

	_, err = ReadTable(strings.NewReader("Expression,Frequency\n猫,many\n"))
	assert.Error(t, err)

	rows, err = ReadTable(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTableFilesAndDiscovery(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteTableFile(TablePath(dir, "Show B"), sampleRows()))
	require.NoError(t, WriteTableFile(TablePath(dir, "Show A"), sampleRows()[:1]))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.csv"), []byte("x"), 0o644))

	tables, err := DiscoverTables(dir)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "Show A", tables[0].Show)
	assert.Equal(t, "Show B", tables[1].Show)

	rows, err := ReadTableFile(tables[1].Path)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestGenerateID(t *testing.T) {
	a := GenerateID("Show", SaltVocabModel)
	assert.Equal(t, a, GenerateID("Show", SaltVocabModel))
	assert.NotEqual(t, a, GenerateID("Show", SaltVocabDeck))
	assert.GreaterOrEqual(t, a, int64(0))
	assert.Less(t, a, int64(10_000_000_000))
}

func TestNoteTypes(t *testing.T) {
	v := VocabNoteType("Show")
	s := SentenceNoteType("Show")
	m := MegaNoteType("Anime Mega Deck")

	assert.Equal(t, Header, v.Fields)
	assert.Equal(t, Header, s.Fields)
	assert.Equal(t, "Shows", m.Fields[len(m.Fields)-1])
	assert.NotContains(t, m.Fields, "Episodes")
	assert.NotEqual(t, v.ID, s.ID)

	for _, nt := range []NoteType{v, s, m} {
		for _, tmpl := range nt.Templates {
			for _, f := range referencedFields(tmpl.Front + tmpl.Back) {
				assert.Contains(t, nt.Fields, f, "%s references unknown field", nt.Name)
			}
		}
	}
	assert.Equal(t, "Anime Vocabulary:: Show", VocabDeckName("Show"))
	assert.Equal(t, "Anime Sentences:: Show", SentenceDeckName("Show"))
}

func referencedFields(tmpl string) []string {
	var out []string
	for {
		i := strings.Index(tmpl, "{{")
		if i < 0 {
			return out
		}
		j := strings.Index(tmpl[i:], "}}")
		if j < 0 {
			return out
		}
		if name := tmpl[i+2 : i+j]; name != "FrontSide" {
			out = append(out, name)
		}
		tmpl = tmpl[i+j+2:]
	}
}

func TestPackageWrite(t *testing.T) {
	src := t.TempDir()
	img := filepath.Join(src, "ep01_00_01_02_345.jpg")
	require.NoError(t, os.WriteFile(img, []byte("jpeg"), 0o644))

	nt := VocabNoteType("Show")
	d := &Deck{ID: GenerateID("Show", SaltVocabDeck), Name: VocabDeckName("Show"), NoteType: nt}
	for _, r := range sampleRows() {
		require.NoError(t, d.AddNote(r.Fields()))
	}
	assert.Error(t, d.AddNote([]string{"too", "short"}))

	sd := &Deck{ID: GenerateID("Show", SaltSentenceDeck), Name: SentenceDeckName("Show"), NoteType: SentenceNoteType("Show")}
	require.NoError(t, sd.AddNote(sampleRows()[1].Fields()))

	p := NewPackage()
	p.AddDeck(d)
	p.AddDeck(sd)
	p.AddMedia(img, img, "")
	assert.Equal(t, []string{img}, p.Media())

	out := t.TempDir()
	man, err := p.Write(out, "Show Master")
	require.NoError(t, err)
	require.Len(t, man.Decks, 2)
	assert.Equal(t, 2, man.Decks[0].Notes)
	assert.Len(t, man.NoteTypes, 2)
	assert.Equal(t, []string{"ep01_00_01_02_345.jpg"}, man.Media)

	root := filepath.Join(out, "Show_Master")
	_, err = os.Stat(filepath.Join(root, MediaDir, "ep01_00_01_02_345.jpg"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "manifest.json"))
	assert.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, man.Decks[0].File))
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "#separator:tab\n#html:true\n#notetype:Japanese Anime Vocab\n#deck:Anime Vocabulary:: Show\n#columns:Expression\tReading"))

	var body []string
	for _, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(line, "#") {
			body = append(body, line)
		}
	}
	r := csv.NewReader(strings.NewReader(strings.Join(body, "\n")))
	r.Comma = '\t'
	recs, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, sampleRows()[0].Fields(), recs[0])

	css, err := os.ReadFile(filepath.Join(root, "templates", "Japanese_Anime_Vocab.css"))
	require.NoError(t, err)
	assert.Contains(t, string(css), ".expression")
	assert.Less(t, len(css), len(StyleVocab))
	_, err = os.Stat(filepath.Join(root, "templates", "Japanese_Anime_Vocab.Vocab_Card.front.html"))
	assert.NoError(t, err)
}
