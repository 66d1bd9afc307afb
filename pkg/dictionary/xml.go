package dictionary

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
)

// entityDeclRe matches <!ENTITY name "expansion"> lines of the JMdict DTD.
var entityDeclRe = regexp.MustCompile(`<!ENTITY\s+([\w.-]+)\s+"([^"]*)">`)

type xmlEntry struct {
	Sequence string `xml:"ent_seq"`
	Kanji    []struct {
		Text     string   `xml:"keb"`
		Priority []string `xml:"ke_pri"`
	} `xml:"k_ele"`
	Readings []struct {
		Text     string   `xml:"reb"`
		Priority []string `xml:"re_pri"`
	} `xml:"r_ele"`
	Sense []struct {
		PartOfSpeech []string `xml:"pos"`
		Gloss        []struct {
			Text string `xml:",chardata"`
			Lang string `xml:"http://www.w3.org/XML/1998/namespace lang,attr"`
		} `xml:"gloss"`
	} `xml:"sense"`
}

// LoadJMdictXML streams an EDRDG JMdict XML file and converts it to the
// jmdict-simplified shape used by the index. Entities declared in the
// internal DTD (the part-of-speech codes) expand to their descriptions.
// Kanji and kana elements with a priority tag count as common; non-English
// glosses are skipped.
func LoadJMdictXML(path string) ([]JMdictEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeJMdictXML(bufio.NewReaderSize(f, 1<<20))
}

func decodeJMdictXML(r io.Reader) ([]JMdictEntry, error) {
	dec := xml.NewDecoder(r)
	dec.Entity = make(map[string]string)

	var entries []JMdictEntry
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse JMdict XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.Directive:
			for _, m := range entityDeclRe.FindAllSubmatch(t, -1) {
				dec.Entity[string(m[1])] = string(m[2])
			}
		case xml.StartElement:
			if t.Name.Local != "entry" {
				continue
			}
			var src xmlEntry
			if err := dec.DecodeElement(&src, &t); err != nil {
				return nil, fmt.Errorf("failed to parse JMdict entry: %w", err)
			}
			entries = append(entries, src.simplified())
		}
	}
}

func (src xmlEntry) simplified() JMdictEntry {
	e := JMdictEntry{Id: src.Sequence}
	for _, k := range src.Kanji {
		e.Kanji = append(e.Kanji, JMdictElement{Text: k.Text, Common: len(k.Priority) > 0})
	}
	for _, r := range src.Readings {
		e.Kana = append(e.Kana, JMdictElement{Text: r.Text, Common: len(r.Priority) > 0})
	}
	for _, s := range src.Sense {
		sense := JMdictSense{PartOfSpeech: s.PartOfSpeech}
		for _, g := range s.Gloss {
			if g.Lang != "" && g.Lang != "eng" {
				continue
			}
			sense.Gloss = append(sense.Gloss, JMdictGloss{Text: g.Text, Lang: "eng"})
		}
		if len(sense.Gloss) > 0 {
			e.Sense = append(e.Sense, sense)
		}
	}
	return e
}
