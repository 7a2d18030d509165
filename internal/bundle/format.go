package bundle

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode"

	"CardForge/internal/model"
)

// CurrentVersion is written into every exported bundle. Bundles without a version are read as 1.
const CurrentVersion = 1

var (
	// ErrInvalidFormat is returned for bundles that cannot be parsed or fail validation.
	ErrInvalidFormat = errors.New("invalid bundle format")
	// ErrImportFailed is returned when the import transaction could not be committed.
	ErrImportFailed = errors.New("import failed")
)

// ExportedImage is an image blob inlined into a bundle.
type ExportedImage struct {
	Base64 string `json:"base64"`
	Type   string `json:"type"`
}

// Bundle is the self-contained export of one deck.
type Bundle struct {
	Version int                      `json:"version"`
	Deck    model.Deck               `json:"deck"`
	Cards   []model.Card             `json:"cards"`
	Images  map[string]ExportedImage `json:"images"`
}

type wireBundle struct {
	Version *int                     `json:"version"`
	Deck    *model.Deck              `json:"deck"`
	Cards   []json.RawMessage        `json:"cards"`
	Images  map[string]ExportedImage `json:"images"`
}

// Encode writes b as indented JSON.
func Encode(w io.Writer, b *Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

// Decode parses and validates a bundle document.
func Decode(r io.Reader) (*Bundle, error) {
	var wire wireBundle
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if wire.Deck == nil {
		return nil, fmt.Errorf("%w: missing deck", ErrInvalidFormat)
	}
	b := &Bundle{
		Version: CurrentVersion,
		Deck:    *wire.Deck,
		Cards:   make([]model.Card, 0, len(wire.Cards)),
		Images:  wire.Images,
	}
	if wire.Version != nil {
		b.Version = *wire.Version
	}
	for i, raw := range wire.Cards {
		var c model.Card
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("%w: card %d: %w", ErrInvalidFormat, i, err)
		}
		b.Cards = append(b.Cards, c)
	}
	if b.Images == nil {
		b.Images = map[string]ExportedImage{}
	}
	if _, err := prepare(b); err != nil {
		return nil, err
	}
	return b, nil
}

type decodedImage struct {
	oldID    string
	data     []byte
	mimeType string
}

// prepare validates b and decodes its images. Nothing is written.
func prepare(b *Bundle) ([]decodedImage, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: empty bundle", ErrInvalidFormat)
	}
	if b.Version < 1 || b.Version > CurrentVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidFormat, b.Version)
	}
	if strings.TrimSpace(b.Deck.Name) == "" {
		return nil, fmt.Errorf("%w: deck has no name", ErrInvalidFormat)
	}
	for i, c := range b.Cards {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%w: card %d (%s): %w", ErrInvalidFormat, i, c.ID, err)
		}
	}
	images := make([]decodedImage, 0, len(b.Images))
	for _, id := range sortedKeys(b.Images) {
		img := b.Images[id]
		data, mimeType, err := decodeImage(img)
		if err != nil {
			return nil, fmt.Errorf("%w: image %s: %w", ErrInvalidFormat, id, err)
		}
		images = append(images, decodedImage{oldID: id, data: data, mimeType: mimeType})
	}
	return images, nil
}

// decodeImage accepts plain standard base64 or a data URL.
func decodeImage(img ExportedImage) ([]byte, string, error) {
	payload := strings.TrimSpace(img.Base64)
	mimeType := img.Type
	if rest, ok := strings.CutPrefix(payload, "data:"); ok {
		meta, body, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return nil, "", errors.New("data url is not base64")
		}
		if mimeType == "" {
			mimeType = strings.TrimSuffix(meta, ";base64")
		}
		payload = body
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", err
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}

func encodeImage(blob *model.ImageBlob) ExportedImage {
	return ExportedImage{Base64: base64.StdEncoding.EncodeToString(blob.Data), Type: blob.MIMEType}
}

// ExportFileName is the suggested file name for a deck export.
func ExportFileName(d model.Deck) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, d.Name)
	return name + "_export.json"
}
