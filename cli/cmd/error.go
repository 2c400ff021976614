package cmd

import "github.com/ardnew/lispfront/lang"

// Sentinel errors reported by commands. They share [lang.Error], so the
// attributes attached with With are logged alongside the message.
var (
	ErrCheckFailed = lang.NewError("check failed")
	ErrSync        = lang.NewError("sync failed")
	ErrWatch       = lang.NewError("watch failed")
	ErrFormat      = lang.NewError("unsupported format")
	ErrEncode      = lang.NewError("encode output")
)
