package coverage

import "encoding/xml"

// XML schema for JaCoCo reports. Only the elements the engine consumes are
// modeled; unknown elements and attributes are skipped by encoding/xml.
//
//	<report name="...">
//	  <package name="com/example">
//	    <sourcefile name="Foo.java">
//	      <line nr="15" mi="3" ci="0" mb="1" cb="0"/>
//	      <counter type="LINE" missed="2" covered="8"/>
//	    </sourcefile>
//	  </package>
//	</report>

type jacocoReport struct {
	XMLName  xml.Name        `xml:"report"`
	Name     string          `xml:"name,attr"`
	Packages []jacocoPackage `xml:"package"`
	Counters []jacocoCounter `xml:"counter"`
}

type jacocoPackage struct {
	Name        string             `xml:"name,attr"`
	Classes     []jacocoClass      `xml:"class"`
	SourceFiles []jacocoSourceFile `xml:"sourcefile"`
	Counters    []jacocoCounter    `xml:"counter"`
}

type jacocoClass struct {
	Name           string          `xml:"name,attr"`
	SourceFileName string          `xml:"sourcefilename,attr"`
	Counters       []jacocoCounter `xml:"counter"`
}

type jacocoSourceFile struct {
	Name     string          `xml:"name,attr"`
	Lines    []jacocoLine    `xml:"line"`
	Counters []jacocoCounter `xml:"counter"`
}

// jacocoLine carries per-line tallies: mi/ci are missed/covered
// instructions, mb/cb are missed/covered branches.
type jacocoLine struct {
	Nr int `xml:"nr,attr"`
	Mi int `xml:"mi,attr"`
	Ci int `xml:"ci,attr"`
	Mb int `xml:"mb,attr"`
	Cb int `xml:"cb,attr"`
}

type jacocoCounter struct {
	Type    string `xml:"type,attr"`
	Missed  int    `xml:"missed,attr"`
	Covered int    `xml:"covered,attr"`
}

// counterKinds maps JaCoCo counter type attributes to model kinds.
// Types outside this map (COMPLEXITY, CLASS, future additions) are skipped.
var counterKinds = map[string]Kind{
	"LINE":        KindLine,
	"BRANCH":      KindBranch,
	"METHOD":      KindMethod,
	"INSTRUCTION": KindInstruction,
}
