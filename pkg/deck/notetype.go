package deck

import (
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strconv"
)

// Salts combined with a deck name to derive stable identifiers.
const (
	SaltVocabModel    = 1
	SaltVocabDeck     = 2
	SaltSentenceModel = 3
	SaltSentenceDeck  = 4
)

var idModulus = big.NewInt(10_000_000_000)

// GenerateID derives a stable ten-digit identifier from name and salt: the
// SHA-256 of name followed by the decimal salt, reduced modulo 10^10.
func GenerateID(name string, salt int) int64 {
	sum := sha256.Sum256([]byte(name + strconv.Itoa(salt)))
	n, _ := new(big.Int).SetString(hex.EncodeToString(sum[:]), 16)
	return n.Mod(n, idModulus).Int64()
}

// Template is one card layout of a note type.
type Template struct {
	Name  string
	Front string
	Back  string
}

// NoteType binds an ordered field list to card templates and styling.
type NoteType struct {
	ID        int64
	Name      string
	Fields    []string
	Templates []Template
	CSS       string
}

// Note type names.
const (
	VocabNoteName    = "Japanese Anime Vocab"
	SentenceNoteName = "Japanese Anime Sentence"
	MegaNoteName     = "Japanese Mega Vocab"
)

// MegaFields is the field order of merged cards. Shows replaces Episodes
// and closes the list.
var MegaFields = []string{
	"Expression", "Reading", "Meaning", "Level", "Frequency", "Sentence",
	"Translation", "Image", "WordAudio", "SentenceAudio", "Shows",
}

const hoverCSS = `
.expression { font-size: 50px; cursor: pointer; position: relative; display: inline-block; font-weight: bold; }
.expression .reading-hover { visibility: hidden; font-size: 20px; color: #7f8c8d; position: absolute; width: 100%; top: -25px; left: 0; }
.expression:hover .reading-hover { visibility: visible; }
`

// StyleVocab is the stylesheet shared by every note type.
const StyleVocab = `
.card { font-family: "Noto Sans JP", "Hiragino Kaku Gothic Pro", "Meiryo", sans-serif; text-align: center; background-color: #fdfdfd; padding: 20px; }
.level { display: inline-block; padding: 2px 10px; border-radius: 5px; background: #3498db; color: white; font-size: 16px; margin-top: 10px; }
.meaning { text-align: left; margin-top: 20px; font-size: 18px; border-top: 1px solid #ccc; padding-top: 10px; }
.sentence { margin-top: 20px; font-style: italic; background: #eee; padding: 10px; border-radius: 5px; font-size: 22px; }
.translation { font-size: 16px; color: #7f8c8d; margin-top: 5px; }
.screenshot { margin-top: 15px; }
.screenshot img { max-width: 100%; height: auto; border-radius: 5px; }
.footer { font-size: 12px; color: #bdc3c7; margin-top: 15px; border-top: 1px dashed #ccc; padding-top: 5px; }
` + hoverCSS

const expressionHTML = `<div class="expression"><span class="reading-hover">{{Reading}}</span>{{Expression}}</div>`

// VocabNoteType is the word-recognition note type for show.
func VocabNoteType(show string) NoteType {
	return NoteType{
		ID:     GenerateID(show, SaltVocabModel),
		Name:   VocabNoteName,
		Fields: append([]string(nil), Header...),
		Templates: []Template{{
			Name:  "Vocab Card",
			Front: expressionHTML + `<br>{{WordAudio}}<br><div class="level">{{Level}}</div>`,
			Back: `{{FrontSide}}<hr id="answer"><div class="meaning">{{Meaning}}</div>` +
				`<div class="sentence">{{Sentence}}<br>{{SentenceAudio}}</div>` +
				`<div class="translation">{{Translation}}</div><div class="screenshot">{{Image}}</div>` +
				`<div class="footer">Found in: {{Episodes}} | Count: {{Frequency}}x</div>`,
		}},
		CSS: StyleVocab,
	}
}

// SentenceNoteType is the sentence-recognition note type for show.
func SentenceNoteType(show string) NoteType {
	return NoteType{
		ID:     GenerateID(show, SaltSentenceModel),
		Name:   SentenceNoteName,
		Fields: append([]string(nil), Header...),
		Templates: []Template{{
			Name:  "Sentence Card",
			Front: `<div class="sentence-front">{{Sentence}}<br>{{SentenceAudio}}</div>`,
			Back: `{{FrontSide}}<hr id="answer">` + expressionHTML +
				`<br>{{WordAudio}}<div class="level">{{Level}}</div><div class="meaning">{{Meaning}}</div>` +
				`<div class="translation">{{Translation}}</div><div class="screenshot">{{Image}}</div>`,
		}},
		CSS: StyleVocab,
	}
}

// MegaNoteType is the merged cross-show note type for the deck called name.
func MegaNoteType(name string) NoteType {
	return NoteType{
		ID:     GenerateID(name, SaltVocabModel),
		Name:   MegaNoteName,
		Fields: append([]string(nil), MegaFields...),
		Templates: []Template{{
			Name:  "Vocab Card",
			Front: expressionHTML + `<br>{{WordAudio}}<br><div class="level">{{Level}}</div>`,
			Back: `{{FrontSide}}<hr id="answer"><div class="meaning">{{Meaning}}</div>` +
				`<div class="sentence">{{Sentence}}<br>{{SentenceAudio}}</div>` +
				`<div class="translation">{{Translation}}</div><div class="screenshot">{{Image}}</div>` +
				`<div class="footer">Found in: {{Shows}} | Total Count: {{Frequency}}x</div>`,
		}},
		CSS: StyleVocab,
	}
}

// VocabDeckName and SentenceDeckName name a show's decks.
func VocabDeckName(show string) string    { return "Anime Vocabulary:: " + show }
func SentenceDeckName(show string) string { return "Anime Sentences:: " + show }
