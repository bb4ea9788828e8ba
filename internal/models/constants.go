package models

const (
	// HeaderUserID carries the caller identity on every authenticated call.
	HeaderUserID = "X-Sharer-User-Id"

	// RequestPageSize is the fixed page size of the global request listing.
	RequestPageSize = 20

	// Gateway field limits.
	MaxUserNameLen    = 250
	MaxEmailLen       = 250
	MaxItemNameLen    = 100
	MaxDescriptionLen = 500
	MaxCommentLen     = 1000
)
