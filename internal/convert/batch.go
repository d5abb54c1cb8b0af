// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/pdiddy/folder2pdf/internal/assemble"
)

// BatchResult reports what one batch contributed to the output.
type BatchResult struct {
	// Decoded is the number of images that decoded successfully.
	Decoded int

	// DecodeFailures is the number of images skipped.
	DecodeFailures int

	// Pages is the number of pages appended to the merge.
	Pages int

	// Err is set when the batch was dropped because rendering or
	// appending its document failed.
	Err error
}

// IntermediateName returns the file name of the document for batch index.
func IntermediateName(index int) string {
	return fmt.Sprintf("temp_%d.pdf", index)
}

// RunBatch decodes files, renders the decoded images to an intermediate
// document in ws and appends it to merge. Undecodable files are logged and
// skipped. A batch with no decodable file produces no document and no
// error. Every decoded image is released before RunBatch returns, so at
// most len(files) images are resident at once. onFile, when set, is called
// after every file attempt.
func (c *Converter) RunBatch(ws string, index int, files []ImageFile, merge assemble.Merge, log zerolog.Logger, onFile func()) BatchResult {
	var res BatchResult
	images := make([]image.Image, 0, len(files))
	defer func() {
		for _, img := range images {
			c.codec.Release(img)
		}
	}()

	for _, f := range files {
		img, err := c.codec.Decode(f.Path)
		if err != nil {
			res.DecodeFailures++
			log.Warn().Str("file", f.Name).Err(err).Msg("skipping unreadable image")
		} else {
			images = append(images, c.codec.Opaque(img))
		}
		if onFile != nil {
			onFile()
		}
	}
	res.Decoded = len(images)
	if len(images) == 0 {
		return res
	}

	path := filepath.Join(ws, IntermediateName(index))
	if err := c.asm.Render(images, path); err != nil {
		res.Err = err
		log.Warn().Int("batch", index+1).Str("first", files[0].Name).Err(err).Msg("skipping batch")
		return res
	}

	before := merge.Pages()
	if err := merge.Append(path); err != nil {
		res.Err = err
		log.Warn().Int("batch", index+1).Str("first", files[0].Name).Err(err).Msg("skipping batch")
		return res
	}
	res.Pages = merge.Pages() - before

	log.Info().Int("batch", index+1).Int("images", len(images)).Int("pages", res.Pages).
		Msg("intermediate document written")
	return res
}
