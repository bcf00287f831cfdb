package xmlpt

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sepamod/gopart/trackfile"
)

//The model writes one XML per release scenario, with run-configuration noise
//in the names. The converted file drops the noise and gains a _trackStruct
//marker, mirroring what the old MATLAB chain produced.
var nameCleanups = [][2]string{
	{".xml", ".tsf"},
	{"pt3D", ""},
	{"5minUnComp", "_trackStruct"},
	{"__", "_"},
	{"_ECLH", ""},
	{"_WLLS", ""},
	{"_FOC", ""},
	{"_ES", ""},
	{"_WC", ""},
}

// OutputName returns the track-file name a given particle XML converts to.
func OutputName(xml string) string {
	out := xml
	for _, r := range nameCleanups {
		out = strings.ReplaceAll(out, r[0], r[1])
	}
	return out
}

// Convert reads one particle XML file and writes the converted TrackSet next
// to it (see OutputName). The output name is returned.
func Convert(xml string, o Options) (string, error) {
	out := OutputName(xml)
	T, err := ReadOptions(xml, o)
	if err != nil {
		return "", errDecorate(err, "Convert")
	}
	if err := trackfile.SaveTracks(out, T); err != nil {
		return "", errDecorate(err, "Convert")
	}
	return out, nil
}

// ProcessFolder converts every particle XML file under dir (subfolders
// included). Files whose converted output already exists are skipped, so a
// folder can be reprocessed cheaply after a model rerun adds files. Returns
// the files written.
func ProcessFolder(dir string, o Options) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, Error{NotADirectory, dir, []string{"ProcessFolder"}, true}
	}
	var xmls []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".xml") {
			xmls = append(xmls, path)
		}
		return nil
	})
	if err != nil {
		return nil, Error{err.Error(), dir, []string{"ProcessFolder"}, true}
	}
	log.Printf("xmlpt: %d XML files found under %s", len(xmls), dir)
	var written []string
	for _, xml := range xmls {
		out := OutputName(xml)
		if _, err := os.Stat(out); err == nil && !o.Force {
			log.Printf("xmlpt: %s exists already, skipping", out)
			continue
		}
		log.Printf("xmlpt: processing %s", xml)
		if _, err := Convert(xml, o); err != nil {
			return written, errDecorate(err, "ProcessFolder")
		}
		written = append(written, out)
	}
	return written, nil
}
