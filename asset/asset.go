// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package asset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	// Register the decoders for the raster formats drawings ship in.
	_ "image/jpeg"
	_ "image/png"

	"github.com/camio-project/camio/imaging"
)

// Drawing holds the three raw resources of one tactile drawing.
// Immutable after Load.
type Drawing struct {
	// Name is the drawing's directory name, e.g. "Islet2".
	Name string

	// Data is the verbatim data.json document. It is forwarded to the
	// model unmodified as the first conversation item.
	Data json.RawMessage

	// Language is the BCP 47 tag from the metadata (metadata.lang),
	// or "en-US" when the document does not carry one.
	Language string

	// Template is the decoded drawing template raster.
	Template image.Image

	// ColorMap is the decoded hotspot color map raster.
	ColorMap image.Image
}

// metadataDocument is the subset of data.json this package reads.
// Everything else passes through opaquely.
type metadataDocument struct {
	Metadata struct {
		Lang string `json:"lang"`
	} `json:"metadata"`
}

// Load fetches a drawing's three resources from base, which is either
// a local directory or an HTTP(S) URL prefix. The drawing occupies the
// subpath <base>/<name>/.
func Load(ctx context.Context, base, name string) (*Drawing, error) {
	fetch := fetchFile
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		fetch = fetchHTTP
	}

	data, err := fetch(ctx, base, name, "data.json")
	if err != nil {
		return nil, fmt.Errorf("loading drawing data: %w", err)
	}
	templateBytes, err := fetch(ctx, base, name, "template.png")
	if err != nil {
		return nil, fmt.Errorf("loading drawing template: %w", err)
	}
	colorMapBytes, err := fetch(ctx, base, name, "colorMap.png")
	if err != nil {
		return nil, fmt.Errorf("loading drawing color map: %w", err)
	}

	var metadata metadataDocument
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("parsing data.json for %s: %w", name, err)
	}
	language := metadata.Metadata.Lang
	if language == "" {
		language = "en-US"
	}

	template, _, err := image.Decode(bytes.NewReader(templateBytes))
	if err != nil {
		return nil, fmt.Errorf("decoding template for %s: %w", name, err)
	}
	colorMap, _, err := image.Decode(bytes.NewReader(colorMapBytes))
	if err != nil {
		return nil, fmt.Errorf("decoding color map for %s: %w", name, err)
	}

	return &Drawing{
		Name:     name,
		Data:     json.RawMessage(data),
		Language: language,
		Template: template,
		ColorMap: colorMap,
	}, nil
}

func fetchFile(_ context.Context, base, name, file string) ([]byte, error) {
	return os.ReadFile(filepath.Join(base, name, file))
}

func fetchHTTP(ctx context.Context, base, name, file string) ([]byte, error) {
	url := strings.TrimSuffix(base, "/") + "/" + path.Join(name, file)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", url, response.StatusCode)
	}
	return io.ReadAll(response.Body)
}

// Prepared holds the transmission-ready form of a drawing: both rasters
// under the byte budget, plus the grayscale template and its dimensions
// for pointed-position encoding.
type Prepared struct {
	Drawing *Drawing

	// Template and ColorMap are the budget-constrained encodings sent
	// as the second and third conversation items.
	Template imaging.Encoded
	ColorMap imaging.Encoded

	// GrayTemplate is the grayscale copy of the encoded template,
	// decoded back at the transmitted resolution so marker positions
	// line up with what the model sees.
	GrayTemplate *image.Gray

	// Width and Height are the pixel dimensions of the encoded
	// template; pointed coordinates are normalized against these.
	Width  int
	Height int
}

// Prepare reduces both drawing rasters to their transmission-ready
// encoded form and builds the grayscale template cache. Fails when
// either image cannot be brought under maxBytes; session start must
// abort in that case.
func Prepare(drawing *Drawing, maxBytes int) (*Prepared, error) {
	template, err := imaging.Encode(drawing.Template, maxBytes)
	if err != nil {
		return nil, fmt.Errorf("preparing template: %w", err)
	}
	colorMap, err := imaging.Encode(drawing.ColorMap, maxBytes)
	if err != nil {
		return nil, fmt.Errorf("preparing color map: %w", err)
	}

	encoded, _, err := image.Decode(bytes.NewReader(template.Data))
	if err != nil {
		return nil, fmt.Errorf("decoding prepared template: %w", err)
	}

	return &Prepared{
		Drawing:      drawing,
		Template:     template,
		ColorMap:     colorMap,
		GrayTemplate: imaging.Grayscale(encoded),
		Width:        template.Width,
		Height:       template.Height,
	}, nil
}
