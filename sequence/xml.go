package sequence

import (
	"encoding/xml"
	"fmt"
	"strings"
)

type legacySequence struct {
	Items []legacyItem `xml:"item"`
}

type legacyItem struct {
	Type     string          `xml:"type,attr"`
	Enabled  string          `xml:"enabled,attr"`
	Name     string          `xml:"name,attr"`
	Elements []legacyElement `xml:",any"`
}

type legacyElement struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

// decodeLegacyXML reads the XML layout of old sequence files:
//
//	<sequence><item type="trivia" enabled="True" name=""><duration>20</duration></item></sequence>
func decodeLegacyXML(data []byte) ([]*Item, error) {
	var seq legacySequence
	if err := xml.Unmarshal(data, &seq); err != nil {
		return nil, err
	}

	items := make([]*Item, 0, len(seq.Items))
	for i, li := range seq.Items {
		kind, ok := ParseKind(li.Type)
		if !ok {
			return nil, fmt.Errorf("item %d: unknown item type %q", i, li.Type)
		}

		it := NewItem(kind)
		it.Enabled = li.Enabled == "True"
		it.Name = li.Name

		for _, el := range li.Elements {
			attr := el.XMLName.Local
			if _, known := kind.Element(attr); !known {
				continue
			}
			text := strings.TrimSpace(el.Text)
			if text == "None" {
				continue
			}
			if err := it.Set(attr, text); err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}

		items = append(items, it)
	}

	return items, nil
}
