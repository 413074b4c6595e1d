package models

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// BlockType names the kind of a content block.
type BlockType string

const (
	BlockParagraph BlockType = "paragraph"
	BlockHeader    BlockType = "header"
	BlockImage     BlockType = "image"
	BlockCode      BlockType = "code"
	BlockVideo     BlockType = "video"
	BlockQuote     BlockType = "quote"
)

// BlockData is the payload of a content block. Each block type has exactly
// one payload shape.
type BlockData interface {
	BlockType() BlockType
}

type ParagraphData struct {
	Text *string `json:"text,omitempty"`
}

type HeaderData struct {
	Text  *string `json:"text,omitempty"`
	Level *int    `json:"level,omitempty"`
}

type ImageData struct {
	URL     *string `json:"url,omitempty"`
	Caption *string `json:"caption,omitempty"`
}

type CodeData struct {
	Language *string `json:"language,omitempty"`
	Code     *string `json:"code,omitempty"`
}

type VideoData struct {
	URL     *string `json:"url,omitempty"`
	Caption *string `json:"caption,omitempty"`
}

type QuoteData struct {
	Text    *string `json:"text,omitempty"`
	Caption *string `json:"caption,omitempty"`
}

func (ParagraphData) BlockType() BlockType { return BlockParagraph }
func (HeaderData) BlockType() BlockType    { return BlockHeader }
func (ImageData) BlockType() BlockType     { return BlockImage }
func (CodeData) BlockType() BlockType      { return BlockCode }
func (VideoData) BlockType() BlockType     { return BlockVideo }
func (QuoteData) BlockType() BlockType     { return BlockQuote }

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
)

type blockField struct {
	name string
	kind fieldKind
}

// blockFields lists the data keys owned by each payload shape. Any other
// key found under "data", or a known key whose value does not fit the
// field exactly, is kept verbatim in ContentBlock.extra.
var blockFields = map[BlockType][]blockField{
	BlockParagraph: {{"text", kindString}},
	BlockHeader:    {{"text", kindString}, {"level", kindInt}},
	BlockImage:     {{"url", kindString}, {"caption", kindString}},
	BlockCode:      {{"language", kindString}, {"code", kindString}},
	BlockVideo:     {{"url", kindString}, {"caption", kindString}},
	BlockQuote:     {{"text", kindString}, {"caption", kindString}},
}

// fits reports whether raw decodes into a field of kind without losing
// anything. Numbers such as 2.5 or 1e1 never fit an int field.
func (k fieldKind) fits(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 {
		return false
	}
	switch k {
	case kindString:
		return v[0] == '"'
	case kindInt:
		if v[0] != '-' && (v[0] < '0' || v[0] > '9') {
			return false
		}
		_, err := strconv.Atoi(string(v))
		return err == nil
	default:
		return false
	}
}

func newBlockData(t BlockType) BlockData {
	switch t {
	case BlockParagraph:
		return &ParagraphData{}
	case BlockHeader:
		return &HeaderData{}
	case BlockImage:
		return &ImageData{}
	case BlockCode:
		return &CodeData{}
	case BlockVideo:
		return &VideoData{}
	case BlockQuote:
		return &QuoteData{}
	default:
		return nil
	}
}

// ContentBlock is one typed unit of a post body.
//
// Data holds the typed payload for Type. Keys under "data" that do not
// belong to that payload (for example "style") are carried through
// unchanged so a stored body always reads back as it was written. The
// same holds for keys next to id, type and data, and for a data member
// that was null or missing.
type ContentBlock struct {
	ID   string    `json:"id" validate:"required"`
	Type BlockType `json:"type" validate:"required,oneof=paragraph header image code video quote"`
	Data BlockData `json:"data"`

	extra    map[string]json.RawMessage
	top      map[string]json.RawMessage
	dataForm dataForm
}

type dataForm int

const (
	dataObject dataForm = iota
	dataNull
	dataMissing
)

// Extra returns a data key that is not part of the block's payload shape.
func (b ContentBlock) Extra(key string) (json.RawMessage, bool) {
	v, ok := b.extra[key]
	return v, ok
}

// Attr returns a block-level key other than id, type and data.
func (b ContentBlock) Attr(key string) (json.RawMessage, bool) {
	v, ok := b.top[key]
	return v, ok
}

func (b *ContentBlock) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}

	var id string
	var typ BlockType
	if v, ok := members["id"]; ok {
		if err := json.Unmarshal(v, &id); err != nil {
			return fmt.Errorf("block id: %w", err)
		}
		delete(members, "id")
	}
	if v, ok := members["type"]; ok {
		if err := json.Unmarshal(v, &typ); err != nil {
			return fmt.Errorf("block %q: type: %w", id, err)
		}
		delete(members, "type")
	}

	form := dataMissing
	fields := map[string]json.RawMessage{}
	if v, ok := members["data"]; ok {
		delete(members, "data")
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			form = dataNull
		} else {
			form = dataObject
			if err := json.Unmarshal(v, &fields); err != nil {
				return fmt.Errorf("block %q: data must be an object: %w", id, err)
			}
		}
	}

	// Keys are decoded one at a time so a value of an unexpected shape
	// stays in extra instead of failing the whole body.
	payload := newBlockData(typ)
	if payload != nil {
		for _, field := range blockFields[typ] {
			value, ok := fields[field.name]
			if !ok || !field.kind.fits(value) {
				continue
			}
			single, err := json.Marshal(map[string]json.RawMessage{field.name: value})
			if err != nil {
				return err
			}
			if err := json.Unmarshal(single, payload); err == nil {
				delete(fields, field.name)
			}
		}
	}

	*b = ContentBlock{ID: id, Type: typ, Data: payload, dataForm: form}
	if len(fields) > 0 {
		b.extra = fields
	}
	if len(members) > 0 {
		b.top = members
	}
	return nil
}

func (b ContentBlock) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(b.extra)+2)
	for k, v := range b.extra {
		fields[k] = v
	}
	if b.Data != nil {
		encoded, err := json.Marshal(b.Data)
		if err != nil {
			return nil, err
		}
		var typed map[string]json.RawMessage
		if err := json.Unmarshal(encoded, &typed); err != nil {
			return nil, err
		}
		for k, v := range typed {
			fields[k] = v
		}
	}

	out := make(map[string]json.RawMessage, len(b.top)+3)
	for k, v := range b.top {
		out[k] = v
	}
	id, err := json.Marshal(b.ID)
	if err != nil {
		return nil, err
	}
	typ, err := json.Marshal(b.Type)
	if err != nil {
		return nil, err
	}
	out["id"] = id
	out["type"] = typ

	switch {
	case len(fields) == 0 && b.dataForm == dataMissing:
	case len(fields) == 0 && b.dataForm == dataNull:
		out["data"] = json.RawMessage("null")
	default:
		encoded, err := json.Marshal(fields)
		if err != nil {
			return nil, err
		}
		out["data"] = encoded
	}
	return json.Marshal(out)
}

// Content is the ordered body of a post, stored as one JSONB value.
type Content []ContentBlock

// Validate checks that every block has an id and a known type. Fields
// inside data are not cross-checked against the type.
func (c Content) Validate() error {
	for i, block := range c {
		if block.ID == "" {
			return fmt.Errorf("content[%d]: id is required", i)
		}
		if newBlockData(block.Type) == nil {
			return fmt.Errorf("content[%d]: unknown block type %q", i, block.Type)
		}
	}
	return nil
}
