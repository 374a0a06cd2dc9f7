//go:build linux

package linuxadapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExecLineDropsFieldCodes(t *testing.T) {
	argv := parseExecLine("/usr/bin/gedit --new-window %U")
	assert.Equal(t, []string{"/usr/bin/gedit", "--new-window"}, argv)
}

func TestParseExecLineQuotedBinary(t *testing.T) {
	argv := parseExecLine(`"/opt/My App/bin/app" %f`)
	require.NotEmpty(t, argv)
	assert.NotContains(t, argv[len(argv)-1], "%")
}

func TestParseDesktopFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "editor.desktop")
	content := "[Desktop Entry]\nName=Text Editor\nExec=gedit %U\nType=Application\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	name, execLine, display := parseDesktopFile(path)
	assert.Equal(t, "Text Editor", name)
	assert.Equal(t, "gedit %U", execLine)
	assert.True(t, display)
}

func TestParseDesktopFileNoDisplay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hidden.desktop")
	content := "[Desktop Entry]\nName=Hidden Helper\nExec=helper\nNoDisplay=true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, _, display := parseDesktopFile(path)
	assert.False(t, display)
}

func TestParseDesktopFileIgnoresOtherSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "multi.desktop")
	content := "[Desktop Entry]\nName=Main\nExec=main\n[Desktop Action new]\nName=New Window\nExec=main --new\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	name, execLine, _ := parseDesktopFile(path)
	assert.Equal(t, "Main", name)
	assert.Equal(t, "main", execLine)
}

func TestKeysymForNamedAndChars(t *testing.T) {
	sym, shift, err := keysymFor("enter")
	require.NoError(t, err)
	assert.Equal(t, uint64(0xff0d), sym)
	assert.False(t, shift)

	sym, shift, err = keysymFor("a")
	require.NoError(t, err)
	assert.Equal(t, uint64('a'), sym)
	assert.False(t, shift)

	sym, shift, err = keysymFor("A")
	require.NoError(t, err)
	assert.Equal(t, uint64('a'), sym, "uppercase resolves to the unshifted key")
	assert.True(t, shift)

	sym, shift, err = keysymFor("!")
	require.NoError(t, err)
	assert.Equal(t, uint64('1'), sym)
	assert.True(t, shift)
}

func TestKeysymForRejectsUnknownNames(t *testing.T) {
	_, _, err := keysymFor("hyperkey")
	assert.Error(t, err)
}

func TestXDGApplicationDirsHonorsEnv(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-home")
	t.Setenv("XDG_DATA_DIRS", "/tmp/a:/tmp/b")
	dirs := xdgApplicationDirs()
	assert.Equal(t, []string{
		"/tmp/xdg-home/applications",
		"/tmp/a/applications",
		"/tmp/b/applications",
	}, dirs)
}
