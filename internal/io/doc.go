// Package ioutils provides file system and image utilities.
//
// This package contains functions for:
//   - Atomic whole-file rewrites used by the entity stores
//   - File copying and writing
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//   - Rendering ticket passes as images
//
// # Atomic Rewrites
//
//	err := ioutils.WriteFileAtomic("data/venues.dat", func(w io.Writer) error {
//	    return encode(w)
//	})
//
// The previous file survives any failure during the write.
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("Summer Fest: Night 1/2") // "Summer Fest_ Night 1_2"
//
// # Image Processing
//
// The ImageService draws text cards (ticket passes) and converts them:
//
//	svc := ioutils.NewImageService()
//	png, _ := svc.RenderCard(ctx, ioutils.Card{Title: "Summer Fest", Lines: lines}, 2)
//	jpeg, _ := svc.ConvertToJPEG(ctx, png)
package ioutils
