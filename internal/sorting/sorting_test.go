package sorting

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koompi/file-manager/internal/fileinfo"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func file(name string, size int64, age time.Duration) fileinfo.DirEntry {
	mod := base.Add(-age)
	return fileinfo.DirEntry{
		Path:        "/x/" + name,
		DisplayName: name,
		Size:        &size,
		Modified:    &mod,
		MimeGroup:   fileinfo.MimeGroupForPath(name),
	}
}

func dir(name string) fileinfo.DirEntry {
	mod := base
	return fileinfo.DirEntry{Path: "/x/" + name, DisplayName: name, IsDir: true, Modified: &mod}
}

func names(entries []fileinfo.DirEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.DisplayName
	}
	return out
}

func sorted(entries []fileinfo.DirEntry, opts Options) []string {
	cp := append([]fileinfo.DirEntry(nil), entries...)
	Sort(cp, opts)
	return names(cp)
}

func sample() []fileinfo.DirEntry {
	return []fileinfo.DirEntry{
		file("b.txt", 2000, time.Hour),
		file("a.txt", 1000, 0),
		file("photo.png", 1000, 2*time.Hour),
		file("song.mp3", 5000, 3*time.Hour),
		file("Makefile", 10, 4*time.Hour),
		file(".bashrc", 10, 5*time.Hour),
		file("archive.tar.gz", 0, 6*time.Hour),
		dir("src"),
		dir("docs"),
		{Path: "/x/broken", DisplayName: "broken"},
	}
}

func allOptions() []Options {
	var out []Options
	for _, g := range []GroupCriteria{GroupNone, GroupByType, GroupByMime} {
		for _, s := range []SortCriteria{SortByName, SortBySize, SortByModified, SortByType} {
			for _, o := range []SortOrder{Ascending, Descending} {
				out = append(out, Options{Sort: s, Order: o, Group: g})
			}
		}
	}
	return out
}

func TestSortIsStableUnderPermutation(t *testing.T) {
	entries := sample()
	rng := rand.New(rand.NewSource(7))
	for _, opts := range allOptions() {
		want := sorted(entries, opts)
		for i := 0; i < 20; i++ {
			perm := append([]fileinfo.DirEntry(nil), entries...)
			rng.Shuffle(len(perm), func(a, b int) { perm[a], perm[b] = perm[b], perm[a] })
			require.Equal(t, want, sorted(perm, opts), "%+v", opts)
		}
	}
}

func TestCompareIsAntisymmetric(t *testing.T) {
	entries := sample()
	for _, opts := range allOptions() {
		for _, a := range entries {
			for _, b := range entries {
				ab, ba := Compare(a, b, opts), Compare(b, a, opts)
				if a.Path == b.Path {
					assert.Zero(t, ab)
					continue
				}
				assert.NotZero(t, ab)
				assert.Equal(t, ab < 0, ba > 0, "%s vs %s %+v", a.Path, b.Path, opts)
			}
		}
	}
}

func TestGroupingKeepsDirectoriesFirst(t *testing.T) {
	d, f := dir("zzz"), file("aaa.txt", 1, 0)
	for _, opts := range allOptions() {
		if opts.Group == GroupNone {
			continue
		}
		assert.Less(t, Compare(d, f, opts), 0, "%+v", opts)
		assert.Greater(t, Compare(f, d, opts), 0, "%+v", opts)
	}
}

func TestSizeSortTreatsDirectoriesAsZero(t *testing.T) {
	entries := []fileinfo.DirEntry{file("one.bin", 1, 0), dir("beta"), dir("alpha"), file("empty", 0, 0)}
	assert.Equal(t, []string{"alpha", "beta", "empty", "one.bin"},
		sorted(entries, Options{Sort: SortBySize}))
	assert.Equal(t, []string{"one.bin", "empty", "beta", "alpha"},
		sorted(entries, Options{Sort: SortBySize, Order: Descending}))
}

func TestSizeScenario(t *testing.T) {
	entries := []fileinfo.DirEntry{file("b.txt", 2000, time.Hour), file("a.txt", 1000, 0)}
	assert.Equal(t, []string{"a.txt", "b.txt"}, sorted(entries, Options{Sort: SortBySize}))
	assert.Equal(t, []string{"b.txt", "a.txt"}, sorted(entries, Options{Sort: SortBySize, Order: Descending}))
}

func TestModifiedSortMissingIsEpochAndTiesByName(t *testing.T) {
	same := file("same-b", 1, 0)
	same2 := file("same-a", 1, 0)
	older := file("older", 1, time.Hour)
	unknown := fileinfo.DirEntry{Path: "/x/unknown", DisplayName: "unknown"}
	entries := []fileinfo.DirEntry{same, older, unknown, same2}
	assert.Equal(t, []string{"unknown", "older", "same-a", "same-b"}, sorted(entries, Options{Sort: SortByModified}))
}

func TestTypeSortDirectoriesIgnoreOrder(t *testing.T) {
	entries := []fileinfo.DirEntry{file("b.txt", 1, 0), file("a.md", 1, 0), dir("zeta"), file("c.txt", 1, 0), dir("alpha")}
	assert.Equal(t, []string{"alpha", "zeta", "a.md", "b.txt", "c.txt"}, sorted(entries, Options{Sort: SortByType}))
	assert.Equal(t, []string{"zeta", "alpha", "c.txt", "b.txt", "a.md"}, sorted(entries, Options{Sort: SortByType, Order: Descending}))
}

func TestMimeGroupingPutsUngroupedLast(t *testing.T) {
	entries := []fileinfo.DirEntry{
		file("notes.txt", 1, 0),
		file("Makefile", 1, 0),
		file("cat.png", 1, 0),
		dir("src"),
		file("clip.mp4", 1, 0),
	}
	got := sorted(entries, Options{Group: GroupByMime})
	assert.Equal(t, []string{"src", "cat.png", "notes.txt", "clip.mp4", "Makefile"}, got)

	got = sorted(entries, Options{Group: GroupByMime, Order: Descending})
	assert.Equal(t, []string{"src", "cat.png", "notes.txt", "clip.mp4", "Makefile"}, got, "one entry per group, order has no effect")
}

func TestNameSortUsesDisplayName(t *testing.T) {
	app := fileinfo.DirEntry{Path: "/apps/zz.desktop", DisplayName: "Atom"}
	other := fileinfo.DirEntry{Path: "/apps/aa.desktop", DisplayName: "Zed"}
	assert.Equal(t, []string{"Atom", "Zed"}, sorted([]fileinfo.DirEntry{other, app}, Options{}))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "gz", extension("/a/archive.tar.gz"))
	assert.Equal(t, "", extension("/a/Makefile"))
	assert.Equal(t, "", extension("/a/.bashrc"))
	assert.Equal(t, "bak", extension("/a/.bashrc.bak"))
}

func TestParseRoundTrip(t *testing.T) {
	for _, s := range []SortCriteria{SortByName, SortBySize, SortByModified, SortByType} {
		got, err := ParseSortCriteria(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	for _, g := range []GroupCriteria{GroupNone, GroupByType, GroupByMime} {
		got, err := ParseGroupCriteria(g.String())
		require.NoError(t, err)
		assert.Equal(t, g, got)
	}
	o, err := ParseSortOrder("desc")
	require.NoError(t, err)
	assert.Equal(t, Descending, o)
	assert.Equal(t, Ascending, o.Toggle())

	_, err = ParseSortCriteria("colour")
	assert.Error(t, err)
}
