package xmlpt

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

//A tiny but structurally faithful particle file: attribute rows for timestep
//and particle numbers, tag-value rows for everything else, a 30-minute step
//between hourly ones, and an underscore code that must be ignored.
const testXML = `<Head>
<StartTime>2022-11-13 00:00:00</StartTime>
<EndTime>2022-11-14 00:00:00</EndTime>
<code>x</code>
<code>y</code>
<code>internal_state</code>
</Head>
<TimeStep nr="10">
<DateTime>2022-11-13 00:00:00</DateTime>
<Particle Nr="1">
<x>1.25</x>
<y>2.5</y>
<Particle Nr="2">
<x>3.0</x>
<y>4.0</y>
<TimeStep nr="11">
<DateTime>2022-11-13 00:30:00</DateTime>
<Particle Nr="1">
<x>9.9</x>
<TimeStep nr="12">
<DateTime>2022-11-13 01:00:00</DateTime>
<Particle Nr="2">
<x>5.5</x>
<y>6.5</y>
`

func writeTestXML(Te *testing.T) string {
	path := filepath.Join(Te.TempDir(), "pt3Drun1_5minUnComp_WLLS.xml")
	if err := os.WriteFile(path, []byte(testXML), 0644); err != nil {
		Te.Fatal(err)
	}
	return path
}

func TestParseRow(Te *testing.T) {
	cases := []struct{ line, name, val string }{
		{`<TimeStep nr="10">`, "TimeStep nr", "10"},
		{`<Particle Nr="2">`, "Particle Nr", "2"},
		{`<DateTime>2022-11-13 00:30:00</DateTime>`, "DateTime", "2022-11-13 00:30:00"},
		{`  <x>1.25</x>  `, "x", "1.25"},
		{`garbage`, "", ""},
		{`<unclosed>3.5`, "", ""},
	}
	for _, c := range cases {
		n, v := parseRow(c.line)
		if n != c.name || v != c.val {
			Te.Errorf("parseRow(%q) = %q, %q; want %q, %q", c.line, n, v, c.name, c.val)
		}
	}
}

func TestReadHeader(Te *testing.T) {
	path := writeTestXML(Te)
	h, err := ReadHeader(path, 1000)
	if err != nil {
		Te.Fatal(err)
	}
	if h.TimeSpacing != 1 || h.StepOffset != 10 {
		Te.Errorf("spacing %d offset %d, want 1 and 10", h.TimeSpacing, h.StepOffset)
	}
	if len(h.Codes) != 2 || h.Codes[0] != "x" || h.Codes[1] != "y" {
		Te.Errorf("codes = %v, want [x y]", h.Codes)
	}
	if math.Abs(h.DurationDays-1.0) > 1e-12 {
		Te.Errorf("duration = %v days, want 1", h.DurationDays)
	}
}

func TestReadHourly(Te *testing.T) {
	path := writeTestXML(Te)
	T, err := Read(path)
	if err != nil {
		Te.Fatal(err)
	}
	if T.NParticles() != 2 || T.NSteps() != 2 {
		Te.Fatalf("got %d particles x %d steps, want 2x2", T.NParticles(), T.NSteps())
	}
	x, err := T.Var("x")
	if err != nil {
		Te.Fatal(err)
	}
	if x.At(0, 0) != 1.25 || x.At(1, 0) != 3.0 || x.At(1, 1) != 5.5 {
		Te.Errorf("wrong x values: %v %v %v", x.At(0, 0), x.At(1, 0), x.At(1, 1))
	}
	if !math.IsNaN(x.At(0, 1)) {
		Te.Error("particle 1 has no value at the second hourly step")
	}
	dt := T.DateTime()
	if math.Abs(dt[0]-738838.0) > 1e-9 || math.Abs(dt[1]-(738838.0+1.0/24.0)) > 1e-9 {
		Te.Errorf("wrong datenums: %v", dt)
	}
	if T.TimeSpacing() != 1 {
		Te.Errorf("time spacing = %d, want 1", T.TimeSpacing())
	}
}

func TestReadAllSteps(Te *testing.T) {
	path := writeTestXML(Te)
	o := DefaultOptions()
	o.HourlyOnly = false
	T, err := ReadOptions(path, o)
	if err != nil {
		Te.Fatal(err)
	}
	if T.NSteps() != 3 {
		Te.Fatalf("got %d steps, want 3", T.NSteps())
	}
	x, _ := T.Var("x")
	if x.At(0, 1) != 9.9 {
		Te.Errorf("half-hour step lost: %v", x.At(0, 1))
	}
}

func TestReadStrayDateTime(Te *testing.T) {
	//a DateTime record before any timestep row must be skipped, not indexed
	stray := `<Head>
<StartTime>2022-11-13 00:00:00</StartTime>
<EndTime>2022-11-13 02:00:00</EndTime>
<code>x</code>
</Head>
<DateTime>2022-11-13 00:00:00</DateTime>
<TimeStep nr="10">
<DateTime>2022-11-13 01:00:00</DateTime>
<Particle Nr="1">
<x>1.0</x>
<TimeStep nr="11">
<DateTime>2022-11-13 01:30:00</DateTime>
<Particle Nr="1">
<x>2.0</x>
`
	path := filepath.Join(Te.TempDir(), "pt3Dstray_5minUnComp_WLLS.xml")
	if err := os.WriteFile(path, []byte(stray), 0644); err != nil {
		Te.Fatal(err)
	}
	o := DefaultOptions()
	o.HourlyOnly = false
	T, err := ReadOptions(path, o)
	if err != nil {
		Te.Fatal(err)
	}
	if T.NSteps() != 2 {
		Te.Errorf("got %d steps, want 2", T.NSteps())
	}
	x, err := T.Var("x")
	if err != nil {
		Te.Fatal(err)
	}
	if x.At(0, 0) != 1.0 || x.At(0, 1) != 2.0 {
		Te.Errorf("wrong x values: %v %v", x.At(0, 0), x.At(0, 1))
	}
}

func TestOutputNameAndProcessFolder(Te *testing.T) {
	if got := OutputName("a/pt3Drun1_5minUnComp_WLLS.xml"); got != "a/run1_trackStruct.tsf" {
		Te.Errorf("OutputName = %q", got)
	}
	path := writeTestXML(Te)
	dir := filepath.Dir(path)
	written, err := ProcessFolder(dir, DefaultOptions())
	if err != nil {
		Te.Fatal(err)
	}
	if len(written) != 1 {
		Te.Fatalf("wrote %d files, want 1", len(written))
	}
	if _, err := os.Stat(written[0]); err != nil {
		Te.Fatal(err)
	}
	//second pass skips the existing output
	written, err = ProcessFolder(dir, DefaultOptions())
	if err != nil {
		Te.Fatal(err)
	}
	if len(written) != 0 {
		Te.Errorf("second pass rewrote %v", written)
	}
}
