//go:build darwin

package macosadapter

// The C side of the adapter lives in bridge.m, with prototypes in
// bridge.h; the linker flags here pull in the frameworks it needs.

/*
#cgo LDFLAGS: -framework ApplicationServices -framework AppKit -framework Foundation
#include "bridge.h"
*/
import "C"
