// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"slices"

	"goldsrc/conlog"
)

// Entity is one { "key" "value" ... } block of the entities lump.
type Entity struct {
	properties map[string]string
}

func NewEntity() *Entity {
	return &Entity{properties: make(map[string]string)}
}

func (e *Entity) Property(name string) (string, bool) {
	v, ok := e.properties[name]
	return v, ok
}

func (e *Entity) ClassName() (string, bool) {
	return e.Property("classname")
}

// Keys returns the property names in sorted order.
func (e *Entity) Keys() []string {
	n := make([]string, 0, len(e.properties))
	for k := range e.properties {
		n = append(n, k)
	}
	slices.Sort(n)
	return n
}

func (e *Entity) Len() int {
	return len(e.properties)
}

type tokenizer struct {
	data []byte
	pos  int
}

// next returns the next token. Quoted strings are returned without quotes
// and quoted is set. ok is false at the end of the data.
func (t *tokenizer) next() (tok []byte, quoted bool, ok bool) {
	for t.pos < len(t.data) {
		c := t.data[t.pos]
		if c == 0 {
			// the lump is zero terminated
			t.pos = len(t.data)
			break
		}
		if c > ' ' {
			break
		}
		t.pos++
	}
	if t.pos >= len(t.data) {
		return nil, false, false
	}
	switch c := t.data[t.pos]; c {
	case '{', '}':
		t.pos++
		return t.data[t.pos-1 : t.pos], false, true
	case '"':
		start := t.pos + 1
		end := bytes.IndexByte(t.data[start:], '"')
		if end < 0 {
			t.pos = len(t.data)
			return t.data[start:], true, true
		}
		t.pos = start + end + 1
		return t.data[start : start+end], true, true
	}
	start := t.pos
	for t.pos < len(t.data) && t.data[t.pos] > ' ' && t.data[t.pos] != '"' &&
		t.data[t.pos] != '{' && t.data[t.pos] != '}' {
		t.pos++
	}
	return t.data[start:t.pos], false, true
}

// ParseEntities parses the entities lump. The data looks like:
//
//	{
//	"classname" "worldspawn"
//	"wad" "\half-life\valve\halflife.wad"
//	}
//
// Malformed blocks are dropped, everything parsed until then is kept.
func ParseEntities(data []byte) []*Entity {
	t := &tokenizer{data: data}
	es := []*Entity{}
	for {
		tok, quoted, ok := t.next()
		if !ok {
			return es
		}
		if quoted || string(tok) != "{" {
			conlog.Debug("entities: expected {", "token", string(tok))
			continue
		}
		e := NewEntity()
		for {
			key, quoted, ok := t.next()
			if !ok {
				conlog.Debug("entities: unterminated entity")
				return es
			}
			if !quoted && string(key) == "}" {
				es = append(es, e)
				break
			}
			value, vquoted, ok := t.next()
			if !ok {
				conlog.Debug("entities: missing value", "key", string(key))
				return es
			}
			if !vquoted && (string(value) == "}" || string(value) == "{") {
				conlog.Debug("entities: missing value", "key", string(key))
				if string(value) == "}" {
					es = append(es, e)
					break
				}
				continue
			}
			e.properties[string(key)] = string(value)
		}
	}
}
