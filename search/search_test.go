package search

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTree(Te *testing.T) string {
	dir := Te.TempDir()
	for _, d := range []string{"runs", "runs/old", ".git"} {
		require.NoError(Te, os.Mkdir(filepath.Join(dir, d), 0755))
	}
	for _, f := range []string{
		"pt3DrunA.xml", "pt3DrunB.xml", "runA_trackStruct.tsf", "notes.txt",
		"runs/pt3DrunC.xml", "runs/old/pt3DrunD.xml",
	} {
		require.NoError(Te, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644))
	}
	return dir
}

func names(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func TestFiles(Te *testing.T) {
	dir := testTree(Te)

	got, err := Files(dir, FileOptions{Pattern: "pt3D", Files: Yes})
	require.NoError(Te, err)
	assert.ElementsMatch(Te, []string{"pt3DrunA.xml", "pt3DrunB.xml"}, names(got))

	//a glob pattern is taken literally
	got, err = Files(dir, FileOptions{Pattern: "*.xml", Files: Yes, Subdir: true})
	require.NoError(Te, err)
	assert.Len(Te, got, 4)

	got, err = Files(dir, FileOptions{End: ".tsf"})
	require.NoError(Te, err)
	assert.Equal(Te, []string{"runA_trackStruct.tsf"}, names(got))

	got, err = Files(dir, FileOptions{Pattern: "pt3D", Exclude: []string{"runB"}, Files: Yes})
	require.NoError(Te, err)
	assert.Equal(Te, []string{"pt3DrunA.xml"}, names(got))

	//dirs only
	got, err = Files(dir, FileOptions{Dirs: Yes})
	require.NoError(Te, err)
	assert.ElementsMatch(Te, []string{"runs", ".git"}, names(got))

	//files=No means dirs only too
	got, err = Files(dir, FileOptions{Files: No})
	require.NoError(Te, err)
	assert.ElementsMatch(Te, []string{"runs", ".git"}, names(got))

	//both No means nothing
	got, err = Files(dir, FileOptions{Files: No, Dirs: No})
	require.NoError(Te, err)
	assert.Empty(Te, got)

	//default is both kinds
	got, err = Files(dir, FileOptions{})
	require.NoError(Te, err)
	assert.Len(Te, got, 6)

	_, err = Files(filepath.Join(dir, "absent"), FileOptions{})
	assert.Error(Te, err)
}

func TestStrings(Te *testing.T) {
	items := []string{"apple", "banana", "grape", "Apricot"}

	got, err := Strings(items, []string{"ap"}, StringOptions{})
	require.NoError(Te, err)
	assert.Equal(Te, []string{"apple", "grape", "Apricot"}, got)

	got, err = Strings(items, []string{"ap"}, StringOptions{Where: Start})
	require.NoError(Te, err)
	assert.Equal(Te, []string{"apple", "Apricot"}, got)

	got, err = Strings(items, []string{"ap"}, StringOptions{Where: Start, CaseSensitive: true})
	require.NoError(Te, err)
	assert.Equal(Te, []string{"apple"}, got)

	got, err = Strings(items, []string{"ap", "an"}, StringOptions{})
	require.NoError(Te, err)
	assert.Empty(Te, got) //and semantics: no item has both

	got, err = Strings(items, []string{"ap", "an"}, StringOptions{Or: true})
	require.NoError(Te, err)
	assert.Equal(Te, []string{"apple", "banana", "grape", "Apricot"}, got)

	got, err = Strings(items, []string{"ap"}, StringOptions{Exclude: []string{"gr"}})
	require.NoError(Te, err)
	assert.Equal(Te, []string{"apple", "Apricot"}, got)

	got, err = Strings(items, []string{"banana"}, StringOptions{Where: Exact})
	require.NoError(Te, err)
	assert.Equal(Te, []string{"banana"}, got)

	idx, err := StringIndexes(items, []string{"e"}, StringOptions{Where: End})
	require.NoError(Te, err)
	assert.Equal(Te, []int{0, 2}, idx)

	mask, err := StringMask(items, []string{"a"}, StringOptions{})
	require.NoError(Te, err)
	assert.Equal(Te, []bool{true, true, true, true}, mask)
}

func TestClosestMatch(Te *testing.T) {
	sites := []string{"Bloigh", "Bloigh North", "Caolas", "bloigh"}
	assert.Equal(Te, []string{"Bloigh", "bloigh"}, ClosestMatch(sites, "BLOIGH"))
	assert.Equal(Te, []string{"Caolas"}, ClosestMatch(sites, "cao"))
	assert.Empty(Te, ClosestMatch(sites, "zzz"))
	assert.Empty(Te, ClosestMatch(nil, "x"))
	assert.Empty(Te, ClosestMatch(sites, ""))
}

func TestTreeRender(Te *testing.T) {
	dir := testTree(Te)
	out, err := Tree(dir, TreeOptions{})
	require.NoError(Te, err)
	assert.Contains(Te, out, "pt3DrunA.xml")
	assert.Contains(Te, out, "runs")
	assert.Contains(Te, out, "pt3DrunD.xml")
	assert.NotContains(Te, out, ".git")

	out, err = Tree(dir, TreeOptions{DirsOnly: true})
	require.NoError(Te, err)
	assert.NotContains(Te, out, ".xml")

	_, err = Tree(filepath.Join(dir, "absent"), TreeOptions{})
	assert.Error(Te, err)

	//lines are indented by depth
	out, _ = Tree(dir, TreeOptions{})
	assert.True(Te, strings.Contains(out, "├── ├── "))
}
