/*
   Copyright @ 2021 bocloud <fushaosong@beyondcent.com>.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package netconfig

import (
	"strings"

	"github.com/carina-io/nasconsole/utils"
)

// CommentMarker prefixes every line of a superseded stanza
const CommentMarker = "# "

const (
	KeywordAuto    = "auto"
	KeywordIface   = "iface"
	KeywordMapping = "mapping"
	allowPrefix    = "allow-"
)

// Block is a run of lines of the document. A stanza block starts at a header
// line in column 0 and carries its indented continuation lines, any other block
// is a single comment or blank line kept verbatim.
type Block struct {
	Lines []string
	// Keyword first token of the header, empty for comment and blank lines
	Keyword string
	// Args remaining tokens of the header
	Args []string
}

func (b *Block) IsStanza() bool {
	return b.Keyword != ""
}

// Document an interfaces(5) file parsed into blocks
type Document struct {
	Blocks []*Block
	// trailing newline of the original text
	eol bool
}

func Parse(data []byte) *Document {
	text := string(data)
	doc := &Document{eol: strings.HasSuffix(text, "\n")}
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return doc
	}

	var current *Block
	for _, line := range strings.Split(text, "\n") {
		if isContinuation(line) && current != nil {
			current.Lines = append(current.Lines, line)
			continue
		}
		current = nil

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || isContinuation(line) {
			doc.Blocks = append(doc.Blocks, &Block{Lines: []string{line}})
			continue
		}
		fields := strings.Fields(trimmed)
		current = &Block{Lines: []string{line}, Keyword: fields[0], Args: fields[1:]}
		doc.Blocks = append(doc.Blocks, current)
	}
	return doc
}

func isContinuation(line string) bool {
	return (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) && strings.TrimSpace(line) != ""
}

func (d *Document) Bytes() []byte {
	var lines []string
	for _, b := range d.Blocks {
		lines = append(lines, b.Lines...)
	}
	text := strings.Join(lines, "\n")
	if len(lines) > 0 && d.eol {
		text += "\n"
	}
	return []byte(text)
}

func (d *Document) String() string {
	return string(d.Bytes())
}

// ActiveIfaces every active iface stanza of the interface, all address families
func (d *Document) ActiveIfaces(name string) []*Block {
	var resp []*Block
	for _, b := range d.Blocks {
		if b.Keyword == KeywordIface && len(b.Args) > 0 && b.Args[0] == name {
			resp = append(resp, b)
		}
	}
	return resp
}

// Entry the settings of the last active inet stanza of the interface
func (d *Document) Entry(name string) (*Entry, bool) {
	var found *Block
	for _, b := range d.ActiveIfaces(name) {
		if len(b.Args) >= 2 && b.Args[1] == "inet" {
			found = b
		}
	}
	if found == nil {
		return nil, false
	}
	return entryFromBlock(found), true
}

// Deactivate comments out every stanza of the interface and returns how many
// blocks were touched. Shared auto/allow-* lines keep the other names active.
func (d *Document) Deactivate(name string) int {
	count := 0
	var blocks []*Block
	for _, b := range d.Blocks {
		if !d.belongsTo(b, name) {
			blocks = append(blocks, b)
			continue
		}
		count++
		blocks = append(blocks, commentOut(b))

		if isHotplugLine(b.Keyword) && len(b.Args) > 1 {
			rest := utils.SliceRemoveString(b.Args, name)
			blocks = append(blocks, &Block{
				Lines:   []string{strings.Join(append([]string{b.Keyword}, rest...), " ")},
				Keyword: b.Keyword,
				Args:    rest,
			})
		}
	}
	d.Blocks = blocks
	return count
}

func (d *Document) belongsTo(b *Block, name string) bool {
	switch {
	case b.Keyword == KeywordIface, b.Keyword == KeywordMapping:
		return len(b.Args) > 0 && b.Args[0] == name
	case isHotplugLine(b.Keyword):
		for _, a := range b.Args {
			if a == name {
				return true
			}
		}
	}
	return false
}

func isHotplugLine(keyword string) bool {
	return keyword == KeywordAuto || strings.HasPrefix(keyword, allowPrefix)
}

func commentOut(b *Block) *Block {
	lines := make([]string, 0, len(b.Lines))
	for _, l := range b.Lines {
		lines = append(lines, CommentMarker+l)
	}
	return &Block{Lines: lines}
}

// Append adds the entry as a new stanza at the end, separated by a blank line
func (d *Document) Append(e *Entry) {
	if n := len(d.Blocks); n > 0 {
		last := d.Blocks[n-1]
		if last.IsStanza() || strings.TrimSpace(last.Lines[len(last.Lines)-1]) != "" {
			d.Blocks = append(d.Blocks, &Block{Lines: []string{""}})
		}
	}
	d.Blocks = append(d.Blocks,
		&Block{Lines: []string{KeywordAuto + " " + e.Interface}, Keyword: KeywordAuto, Args: []string{e.Interface}},
	)
	header := []string{e.Interface, "inet", MethodStatic}
	d.Blocks = append(d.Blocks, &Block{
		Lines:   e.Lines()[1:],
		Keyword: KeywordIface,
		Args:    header,
	})
	d.eol = true
}
