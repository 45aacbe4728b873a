package fileinfo

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/koompi/file-manager/internal/constants"
)

// DesktopEntry holds the fields of a desktop descriptor the engine uses.
type DesktopEntry struct {
	Name      string
	Icon      string
	Exec      string
	NoDisplay bool
	Hidden    bool
}

// IsDesktopFile reports whether path has the descriptor extension.
func IsDesktopFile(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), constants.DesktopEntrySuffix)
}

// ParseDesktopFile reads the [Desktop Entry] group of a descriptor,
// picking the Name localized for locale when one is present.
func ParseDesktopFile(path, locale string) (DesktopEntry, error) {
	return parseDesktop(path, locale)
}

// ParseDesktopData is ParseDesktopFile over in-memory content.
func ParseDesktopData(data []byte, locale string) (DesktopEntry, error) {
	return parseDesktop(data, locale)
}

func parseDesktop(source interface{}, locale string) (DesktopEntry, error) {
	var entry DesktopEntry

	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:     true,
		AllowNonUniqueSections:  true,
		SkipUnrecognizableLines: true,
	}, source)
	if err != nil {
		return entry, fmt.Errorf("load desktop entry: %w", err)
	}

	sec, err := file.GetSection(constants.DesktopEntrySection)
	if err != nil {
		return entry, fmt.Errorf("missing [%s] group: %w", constants.DesktopEntrySection, err)
	}

	for _, key := range localizedKeys("Name", locale) {
		if v := strings.TrimSpace(sec.Key(key).String()); v != "" {
			entry.Name = v
			break
		}
	}
	entry.Icon = strings.TrimSpace(sec.Key("Icon").String())
	entry.Exec = strings.TrimSpace(sec.Key("Exec").String())
	entry.NoDisplay = sec.Key("NoDisplay").MustBool(false)
	entry.Hidden = sec.Key("Hidden").MustBool(false)

	if entry.Name == "" {
		return entry, fmt.Errorf("desktop entry has no Name")
	}
	return entry, nil
}

// localizedKeys lists key variants from most to least specific.
func localizedKeys(key, locale string) []string {
	lang, country, modifier := splitLocale(locale)
	var keys []string
	if lang != "" {
		if country != "" && modifier != "" {
			keys = append(keys, fmt.Sprintf("%s[%s_%s@%s]", key, lang, country, modifier))
		}
		if country != "" {
			keys = append(keys, fmt.Sprintf("%s[%s_%s]", key, lang, country))
		}
		if modifier != "" {
			keys = append(keys, fmt.Sprintf("%s[%s@%s]", key, lang, modifier))
		}
		keys = append(keys, fmt.Sprintf("%s[%s]", key, lang))
	}
	return append(keys, key)
}

// splitLocale breaks lang_COUNTRY.ENCODING@MODIFIER into its parts.
func splitLocale(locale string) (lang, country, modifier string) {
	if locale == "" || locale == "C" || locale == "POSIX" {
		return "", "", ""
	}
	if i := strings.Index(locale, "@"); i >= 0 {
		modifier = locale[i+1:]
		locale = locale[:i]
	}
	if i := strings.Index(locale, "."); i >= 0 {
		locale = locale[:i]
	}
	lang, country, _ = strings.Cut(locale, "_")
	return lang, country, modifier
}

// LocaleFromEnv returns the message locale of the process.
func LocaleFromEnv() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
