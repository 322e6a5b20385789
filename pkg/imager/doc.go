// Package imager resolves render URLs for Figma slices and downloads the
// rendered images.
//
// Downloads run through a [queue.Queue] so that at most
// ExportConfig.Concurrency requests are in flight. Each slice becomes one
// task; a failed download is reported in [ExportResult.Errors] and never
// stops the others.
//
// Images land at "<format>/<slice name>.<format>" relative to the output
// store. Two slices sharing a name write the same key and the last one to
// finish wins.
package imager
