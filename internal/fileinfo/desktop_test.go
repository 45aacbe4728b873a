package fileinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const firefoxDesktop = `[Desktop Entry]
Version=1.0
Name=Firefox
Name[de]=Firefox Webbrowser
Name[pt_BR]=Navegador Firefox
Comment=Browse the Web # not a comment
Exec=firefox %u
Icon=firefox
Categories=Network;WebBrowser;
Type=Application

[Desktop Action new-window]
Name=New Window
Exec=firefox --new-window
`

func TestParseDesktopDataLocalizedName(t *testing.T) {
	cases := []struct {
		locale string
		want   string
	}{
		{"", "Firefox"},
		{"C", "Firefox"},
		{"de_DE.UTF-8", "Firefox Webbrowser"},
		{"de", "Firefox Webbrowser"},
		{"pt_BR.UTF-8", "Navegador Firefox"},
		{"pt_PT", "Firefox"},
		{"fr_FR@euro", "Firefox"},
	}
	for _, tc := range cases {
		t.Run(tc.locale, func(t *testing.T) {
			entry, err := ParseDesktopData([]byte(firefoxDesktop), tc.locale)
			require.NoError(t, err)
			assert.Equal(t, tc.want, entry.Name)
			assert.Equal(t, "firefox", entry.Icon)
			assert.Equal(t, "firefox %u", entry.Exec)
		})
	}
}

func TestParseDesktopDataFlags(t *testing.T) {
	entry, err := ParseDesktopData([]byte("[Desktop Entry]\nName=Helper\nNoDisplay=true\n"), "")
	require.NoError(t, err)
	assert.True(t, entry.NoDisplay)
	assert.False(t, entry.Hidden)
}

func TestParseDesktopDataErrors(t *testing.T) {
	_, err := ParseDesktopData([]byte("[Other]\nName=x\n"), "")
	assert.Error(t, err)

	_, err = ParseDesktopData([]byte("[Desktop Entry]\nIcon=x\n"), "")
	assert.Error(t, err)
}

func TestSplitLocale(t *testing.T) {
	lang, country, mod := splitLocale("sr_RS.UTF-8@latin")
	assert.Equal(t, "sr", lang)
	assert.Equal(t, "RS", country)
	assert.Equal(t, "latin", mod)
	assert.Equal(t, []string{"Name[sr_RS@latin]", "Name[sr_RS]", "Name[sr@latin]", "Name[sr]", "Name"},
		localizedKeys("Name", "sr_RS.UTF-8@latin"))
}
