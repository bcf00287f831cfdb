package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const v1csv = `SiteName,Model,Biomass,LicePerFish,Easting,Northing,Notes
Bloigh,FOC,1000,0.4,180000,750000,
Caolas,WLLS,2500,0.4,120000,840000,first consented
`

const v2csv = `SiteName,Model,Biomass,LicePerFish,Easting,Northing,Notes
Bloigh,FOC,1200,0.4,180000,750000,
Duart,FOC,800,0.4,175000,752000,new site
`

const v3csv = `SiteName,Model,Biomass,LicePerFish,Easting,Northing,Notes
Bloigh,FOC,1200,0.4,180000,750000,
Duart,FOC,0,0.4,175000,752000,decommissioned
`

func testDir(Te *testing.T) string {
	dir := Te.TempDir()
	for name, data := range map[string]string{
		"sourceterms_v1.csv": v1csv,
		"sourceterms_v2.csv": v2csv,
		"sourceterms_v3.csv": v3csv,
	} {
		require.NoError(Te, os.WriteFile(filepath.Join(dir, name), []byte(data), 0644))
	}
	return dir
}

func TestLoad(Te *testing.T) {
	ClearCache()
	dir := testDir(Te)
	t, err := Load(dir)
	require.NoError(Te, err)
	assert.Equal(Te, 3, t.NVersions)
	//3 farms x 3 versions
	assert.Len(Te, t.Rows, 9)
	//the cache returns the same table
	t2, err := Load(dir)
	require.NoError(Te, err)
	assert.Same(Te, t, t2)
	ClearCache()

	_, err = Load(filepath.Join(dir, "absent"))
	assert.Error(Te, err)
}

func find(rows []Row, site string, version int) *Row {
	for i := range rows {
		if rows[i].SiteName == site && rows[i].Version == version {
			return &rows[i]
		}
	}
	return nil
}

func TestFillRules(Te *testing.T) {
	ClearCache()
	t, err := Load(testDir(Te))
	require.NoError(Te, err)

	//Duart does not exist in version 1
	r := find(t.Rows, "Duart", 1)
	require.NotNil(Te, r)
	assert.Zero(Te, r.Biomass)
	assert.Contains(Te, r.Comment, "biomass=0")
	assert.Contains(Te, r.Comment, "version 2")
	assert.Equal(Te, 2, r.FarmAdded)

	//Caolas drops out of versions 2 and 3 without ever being zeroed:
	//its version 1 value carries forward
	r = find(t.Rows, "Caolas", 3)
	require.NotNil(Te, r)
	assert.Equal(Te, 2500.0, r.Biomass)
	assert.Contains(Te, r.Comment, "using value 2500 tonnes from version 1")

	//real entries carry no comment
	r = find(t.Rows, "Bloigh", 2)
	require.NotNil(Te, r)
	assert.Equal(Te, 1200.0, r.Biomass)
	assert.Empty(Te, r.Comment)

	//an explicit zero is a real entry, not a fill
	r = find(t.Rows, "Duart", 3)
	require.NotNil(Te, r)
	assert.Zero(Te, r.Biomass)
	assert.Equal(Te, "decommissioned", r.Notes)
}

func TestResolveVersions(Te *testing.T) {
	t := &Table{NVersions: 3}
	assert.Equal(Te, []int{1}, t.ResolveVersions())
	assert.Equal(Te, []int{3}, t.ResolveVersions(0))
	assert.Equal(Te, []int{2}, t.ResolveVersions(-1))
	assert.Equal(Te, []int{1, 2, 3}, t.ResolveVersions(All))
	assert.Equal(Te, []int{2, 3}, t.ResolveVersions(2, 3, 2))
	assert.Empty(Te, t.ResolveVersions(7))
}

func TestSelect(Te *testing.T) {
	ClearCache()
	t, err := Load(testDir(Te))
	require.NoError(Te, err)

	//model match selects every site of the model
	rows, err := t.Select([]string{"foc"}, 0)
	require.NoError(Te, err)
	assert.Len(Te, rows, 2)
	for _, r := range rows {
		assert.Equal(Te, "FOC", r.Model)
		assert.Equal(Te, 3, r.Version)
	}

	//no model match falls back to closest site matching
	rows, err = t.Select([]string{"blo"}, 1)
	require.NoError(Te, err)
	require.Len(Te, rows, 1)
	assert.Equal(Te, "Bloigh", rows[0].SiteName)

	//no queries means everything
	rows, err = t.Select(nil, All)
	require.NoError(Te, err)
	assert.Len(Te, rows, 9)

	_, err = t.Select([]string{"zzz"}, 1)
	assert.Error(Te, err)
}

func TestCompare(Te *testing.T) {
	ClearCache()
	t, err := Load(testDir(Te))
	require.NoError(Te, err)

	rows, err := t.Compare(nil, 2, 1)
	require.NoError(Te, err)
	//Bloigh changed biomass, Duart was added; Caolas carried forward unchanged
	sites := make([]string, len(rows))
	for i, r := range rows {
		sites[i] = r.SiteName
	}
	assert.ElementsMatch(Te, []string{"Bloigh", "Duart"}, sites)

	_, err = t.Compare(nil, 1, 1)
	assert.Error(Te, err)
}

func TestTdisp(Te *testing.T) {
	assert.Equal(Te, "2500", tdisp(2500))
	assert.Equal(Te, "1200.5", tdisp(1200.5))
	assert.Equal(Te, "NaN", tdisp(nan()))
}

func nan() float64 {
	var z float64
	return z / z
}

func TestVersionOrderFromNames(Te *testing.T) {
	ClearCache()
	dir := Te.TempDir()
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "b_second.csv"), []byte(v2csv), 0644))
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "a_first.csv"), []byte(v1csv), 0644))
	t, err := Load(dir)
	require.NoError(Te, err)
	assert.Equal(Te, 2, t.NVersions)
	r := find(t.Rows, "Bloigh", 1)
	require.NotNil(Te, r)
	assert.Equal(Te, 1000.0, r.Biomass)
}
