// Package embedded carries the factory bank definitions compiled into
// the binary, used when no bank files are configured.
package embedded

import (
	_ "embed"
)

//go:embed data/factory.reabank
var FactoryBanks []byte
