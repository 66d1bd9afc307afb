package dictionary

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNoDictionary is returned when the lexicon file is missing and cannot be
// downloaded. Nothing downstream can run without it.
var ErrNoDictionary = errors.New("dictionary: lexicon not available")

// JMdictEntry matches the structure of jmdict-simplified entries.
type JMdictEntry struct {
	Id    string          `json:"id"`
	Kanji []JMdictElement `json:"kanji"`
	Kana  []JMdictElement `json:"kana"`
	Sense []JMdictSense   `json:"sense"`
}

type JMdictElement struct {
	Text   string   `json:"text"`
	Common bool     `json:"common"`
	Tags   []string `json:"tags"`
}

type JMdictSense struct {
	PartOfSpeech []string      `json:"partOfSpeech"`
	Gloss        []JMdictGloss `json:"gloss"`
}

type JMdictGloss struct {
	Text string `json:"text"`
	Lang string `json:"lang"` // defaults to 'eng' if missing
}

// LoadJMdictSimplified streams a jmdict-simplified JSON file, either the
// release object {"words": [...]} or a bare array of entries. Release
// metadata keys are skipped.
func LoadJMdictSimplified(path string) ([]JMdictEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(bufio.NewReaderSize(f, 1<<20))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("dictionary: parse %s: %w", path, err)
	}
	switch tok {
	case json.Delim('['):
		return decodeEntries(dec)
	case json.Delim('{'):
	default:
		return nil, fmt.Errorf("dictionary: parse %s: unexpected %v", path, tok)
	}

	var entries []JMdictEntry
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("dictionary: parse %s: %w", path, err)
		}
		if key != "words" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("dictionary: parse %s: %w", path, err)
			}
			continue
		}
		if tok, err := dec.Token(); err != nil || tok != json.Delim('[') {
			return nil, fmt.Errorf("dictionary: parse %s: words is not an array", path)
		}
		if entries, err = decodeEntries(dec); err != nil {
			return nil, fmt.Errorf("dictionary: parse %s: %w", path, err)
		}
	}
	return entries, nil
}

// decodeEntries reads array elements up to and including the closing bracket.
func decodeEntries(dec *json.Decoder) ([]JMdictEntry, error) {
	var entries []JMdictEntry
	for dec.More() {
		var e JMdictEntry
		if err := dec.Decode(&e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Load reads the lexicon at path in the given format ("json" or "xml").
func Load(path, format string) ([]JMdictEntry, error) {
	switch format {
	case "", "json":
		return LoadJMdictSimplified(path)
	case "xml":
		return LoadJMdictXML(path)
	default:
		return nil, fmt.Errorf("dictionary: unknown format %q", format)
	}
}
