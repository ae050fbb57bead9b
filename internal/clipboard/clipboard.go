// Package clipboard writes to the system clipboard when one is available.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

var ErrUnsupported = errors.New("no clipboard utility available")

// System is the OS clipboard
type System struct{}

func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}
