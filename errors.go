package chapterize

import "errors"

// Sentinel errors returned by the chapterize package.
var (
	// ErrMalformedArchive indicates the input is not a readable ePub:
	// not a valid ZIP archive, missing META-INF/container.xml, or a
	// missing/unparsable package document.
	ErrMalformedArchive = errors.New("chapterize: malformed epub archive")

	// ErrDRMProtected indicates the ePub is protected by DRM
	// (e.g., Adobe ADEPT, Apple FairPlay, Readium LCP) and cannot be read.
	ErrDRMProtected = errors.New("chapterize: file is DRM protected")

	// ErrFileNotFound indicates a requested file does not exist
	// in the ePub archive.
	ErrFileNotFound = errors.New("chapterize: file not found in archive")
)
