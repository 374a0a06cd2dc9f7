//go:build linux

package linuxadapter

/*
#cgo pkg-config: x11 xtst
#include <X11/Xlib.h>
#include <X11/extensions/XTest.h>
#include <stdlib.h>

static Display *x11_open(void) {
    return XOpenDisplay(NULL);
}

static int x11_screen_size(Display *d, int *w, int *h) {
    if (d == NULL) {
        return 0;
    }
    int screen = XDefaultScreen(d);
    *w = XDisplayWidth(d, screen);
    *h = XDisplayHeight(d, screen);
    return 1;
}

static unsigned long x11_focus_window(Display *d) {
    Window focused;
    int revert;
    if (d == NULL) {
        return 0;
    }
    XGetInputFocus(d, &focused, &revert);
    return (unsigned long)focused;
}

static void x11_close(Display *d) {
    if (d != NULL) {
        XCloseDisplay(d);
    }
}

static void x11_fake_key(Display *d, unsigned int keycode, int is_press) {
    if (d == NULL) {
        return;
    }
    XTestFakeKeyEvent(d, keycode, is_press ? True: False, CurrentTime);
    XFlush(d);
}

static void x11_fake_button(Display *d, unsigned int button, int is_press) {
    if (d == NULL) {
        return;
    }
    XTestFakeButtonEvent(d, button, is_press ? True: False, CurrentTime);
    XFlush(d);
}

static void x11_fake_motion(Display *d, int x, int y) {
    if (d == NULL) {
        return;
    }
    int screen = XDefaultScreen(d);
    XTestFakeMotionEvent(d, screen, x, y, CurrentTime);
    XFlush(d);
}

static unsigned int x11_keysym_to_keycode(Display *d, unsigned long keysym) {
    if (d == NULL) {
        return 0;
    }
    return XKeysymToKeycode(d, keysym);
}
*/
import "C"

import "sync"

// x11Display is a process-wide XOpenDisplay handle, opened lazily and
// kept for the process lifetime the way windowsadapter keeps one COM
// apartment initialized once.
type x11Display struct {
	mu      sync.Mutex
	display *C.Display
	opened  bool
}

var x11 = &x11Display{}

func (x *x11Display) ensureOpen() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.opened {
		return x.display != nil
	}
	x.display = C.x11_open()
	x.opened = true
	return x.display != nil
}

func (x *x11Display) screenSize() (int, int, bool) {
	if !x.ensureOpen() {
		return 0, 0, false
	}
	var w, h C.int
	if C.x11_screen_size(x.display, &w, &h) == 0 {
		return 0, 0, false
	}
	return int(w), int(h), true
}

func (x *x11Display) focusedWindow() uint64 {
	if !x.ensureOpen() {
		return 0
	}
	return uint64(C.x11_focus_window(x.display))
}

func (x *x11Display) sendKey(keysym uint64, press bool) {
	if !x.ensureOpen() {
		return
	}
	code := C.x11_keysym_to_keycode(x.display, C.ulong(keysym))
	if code == 0 {
		return
	}
	var p C.int
	if press {
		p = 1
	}
	C.x11_fake_key(x.display, C.uint(code), p)
}

func (x *x11Display) sendButton(button int, press bool) {
	if !x.ensureOpen() {
		return
	}
	var p C.int
	if press {
		p = 1
	}
	C.x11_fake_button(x.display, C.uint(button), p)
}

func (x *x11Display) sendMotion(px, py int) {
	if !x.ensureOpen() {
		return
	}
	C.x11_fake_motion(x.display, C.int(px), C.int(py))
}

func (x *x11Display) close() {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.display != nil {
		C.x11_close(x.display)
		x.display = nil
	}
}
