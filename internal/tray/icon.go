package tray

import "encoding/base64"

// systray.SetIcon wants raw image bytes (PNG on Linux/X11 via libappindicator).
// These are solid-color 16x16 placeholders: green for the enabled state,
// grey for disabled.
const (
	keyboardIconB64         = "iVBORw0KGgoAAAANSUhEUgAAABAAAAAQCAIAAACQkWg2AAAAFklEQVR4nGPQWBBFEmIY1TCqYfhqAAD7BSIQOuzwbQAAAABJRU5ErkJggg=="
	keyboardDisabledIconB64 = "iVBORw0KGgoAAAANSUhEUgAAABAAAAAQCAIAAACQkWg2AAAAFElEQVR4nGPoIREwjGoY1TB8NQAASL2kEGtBXOoAAAAASUVORK5CYII="
)

var (
	keyboardIcon         = mustDecodeIcon(keyboardIconB64)
	keyboardDisabledIcon = mustDecodeIcon(keyboardDisabledIconB64)
)

func mustDecodeIcon(b64 string) []byte {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		panic("tray: invalid embedded icon: " + err.Error())
	}
	return data
}
